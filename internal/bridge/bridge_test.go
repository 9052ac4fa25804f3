package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeType(t *testing.T) {
	t.Parallel()
	cases := []struct {
		lang string
		raw  string
		want string
	}{
		{"kotlin", "String", "java.lang.String"},
		{"kotlin", "kotlin.String", "java.lang.String"},
		{"kotlin", "Int", "java.lang.Integer"},
		{"kotlin", "Int?", "java.lang.Integer"},
		{"kotlin", "MutableList<String>", "java.util.List"},
		{"kotlin", "com.example.Foo", "com.example.Foo"},
		{"kotlin", "Foo", "Foo"},
		{"java", "int", "java.lang.Integer"},
		{"java", "String[]", "String"},
		{"java", "List<String>", "List"},
		{"java", "com.example.Foo", "com.example.Foo"},
		{"groovy", "def", "java.lang.Object"},
		{"groovy", "int", "java.lang.Integer"},
		{"groovy", "Foo", "Foo"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeType(tc.lang, tc.raw), "%s %s", tc.lang, tc.raw)
	}
}

func TestNormalizeImport(t *testing.T) {
	t.Parallel()
	cases := []struct {
		lang string
		raw  string
		want string
	}{
		{"java", "java.util.List;", "java.util.List"},
		{"java", "java.util.*", "java.util.*"},
		{"kotlin", "kotlin.collections.*", "java.util.*"},
		{"kotlin", "kotlin.collections.List", "java.util.List"},
		{"kotlin", "com.example.Foo", "com.example.Foo"},
		{"groovy", "groovy.util.*", "groovy.util.*"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeImport(tc.lang, tc.raw), "%s %s", tc.lang, tc.raw)
	}
}

func TestQualifiedName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "com.example.Outer.Inner", QualifiedName("com.example", []string{"Outer"}, "Inner"))
	assert.Equal(t, "Foo", QualifiedName("", nil, "Foo"))
	assert.Equal(t, "com.example.Foo", QualifiedName("com.example", nil, "Foo"))
}

func TestMatchesWildcard(t *testing.T) {
	t.Parallel()
	assert.True(t, MatchesWildcard("java.util.*", "java.util.List"))
	assert.False(t, MatchesWildcard("java.util.*", "java.util.concurrent.Future"))
	assert.True(t, MatchesWildcard("java.math.BigInteger", "java.math.BigInteger"))
	assert.False(t, MatchesWildcard("java.math.BigInteger", "java.math.BigDecimal"))
}
