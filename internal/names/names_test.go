package names

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"12\nUrena, Adam\nUrena, Adam", "Urena, Adam"},
		{"Urena, AdamUrena, Adam", "Urena, Adam"},
		{"  7  Smith, Jalen ", "Smith, Jalen"},
		{"O'Neil, Pat", "O'Neil, Pat"},
		{"St. John, Marcus", "St. John, Marcus"},
		{"3\nGarrett Owens", "Garrett Owens"},
		{"\"22\" Jones, D.J.", "Jones, D.J."},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Clean(c.raw), "raw=%q", c.raw)
	}
}

func TestCollapseDoubled(t *testing.T) {
	require.Equal(t, "Urena, Adam", CollapseDoubled("Urena, AdamUrena, Adam"))
	require.Equal(t, "Lee, Bo", CollapseDoubled("Lee, Bo"))
	require.Equal(t, "abc", CollapseDoubled("abcabc"))
	require.Equal(t, "ab", CollapseDoubled("ab"))
}

func TestJersey(t *testing.T) {
	require.Equal(t, "12", Jersey("12\nUrena, Adam"))
	require.Equal(t, "7", Jersey("7 Smith, Jalen"))
	require.Equal(t, "", Jersey("Smith, Jalen"))
}

func TestIsFiller(t *testing.T) {
	for _, name := range []string{"Totals", "TEAM", "Opponents", "total", "", "  "} {
		require.True(t, IsFiller(name), "name=%q", name)
	}
	require.False(t, IsFiller("Urena, Adam"))
	require.False(t, IsFiller("Teamer, Chris"))
}

func TestSwapComma(t *testing.T) {
	require.Equal(t, "Adam Urena", SwapComma("Urena, Adam"))
	require.Equal(t, "Garrett Owens", SwapComma("Garrett Owens"))
}

func TestBestMatch(t *testing.T) {
	candidates := []string{"Urena, Adam", "Smith, Jalen", "Owens, Garrett"}

	got, ok := BestMatch("Urena, Adam", candidates, 0.9)
	require.True(t, ok)
	require.Equal(t, "Urena, Adam", got)

	got, ok = BestMatch("Urena, Adan", candidates, 0.9)
	require.True(t, ok)
	require.Equal(t, "Urena, Adam", got)

	_, ok = BestMatch("Zzyzx, Q", candidates, 0.9)
	require.False(t, ok)
}
