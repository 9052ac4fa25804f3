package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/understory-dev/understory"
)

func validateFormat(format string) error {
	switch format {
	case "json", "text":
		return nil
	}
	return fmt.Errorf("invalid format %q (want json or text)", format)
}

func outputLocation(w io.Writer, format string, loc *understory.Location) error {
	if format == "json" {
		return json.NewEncoder(w).Encode(loc)
	}
	if loc.Builtin {
		fmt.Fprintf(w, "%s (builtin)\n", loc.FQN)
		return nil
	}
	fmt.Fprintf(w, "%s:%d:%d", loc.Path, loc.Range.StartLine+1, loc.Range.StartCol+1)
	if loc.FQN != "" {
		fmt.Fprintf(w, "\t%s", loc.FQN)
	}
	fmt.Fprintln(w)
	return nil
}

func outputHover(w io.Writer, format string, info *understory.HoverInfo) error {
	if format == "json" {
		return json.NewEncoder(w).Encode(info)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "FQN\t%s\n", info.FQN)
	fmt.Fprintf(tw, "KIND\t%s\n", hoverKind(info))
	if len(info.Modifiers) > 0 {
		fmt.Fprintf(tw, "MODIFIERS\t%s\n", strings.Join(info.Modifiers, " "))
	}
	if info.Parameters != nil {
		params := make([]string, len(info.Parameters))
		for i, p := range info.Parameters {
			params[i] = strings.TrimSpace(p.Type + " " + p.Name)
		}
		fmt.Fprintf(tw, "PARAMETERS\t(%s)\n", strings.Join(params, ", "))
	}
	if info.ReturnType != "" {
		fmt.Fprintf(tw, "RETURNS\t%s\n", info.ReturnType)
	}
	if info.Documentation != "" {
		fmt.Fprintf(tw, "DOC\t%s\n", firstLine(info.Documentation))
	}
	return tw.Flush()
}

func hoverKind(info *understory.HoverInfo) string {
	if info.Builtin {
		return "builtin"
	}
	if info.Kind == "" {
		return "local"
	}
	return info.Kind
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
