package permission

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCapabilityFollowsRecordID(t *testing.T) {
	require.Equal(t, Create, CapabilityFor(""))
	require.Equal(t, Create, CapabilityFor("  "))
	require.Equal(t, Update, CapabilityFor("42"))
}

func TestEvaluateChecksPrefixedPath(t *testing.T) {
	var asked []string
	checker := CheckerFunc(func(c string) bool {
		asked = append(asked, c)
		return c == "/content/article/update"
	})

	p := Evaluate("/content/article", "", checker)
	require.Equal(t, Permission{Capability: Create, Granted: false}, p)

	p = Evaluate("/content/article/", "7", checker)
	require.Equal(t, Permission{Capability: Update, Granted: true}, p)
	require.Equal(t, []string{"/content/article/create", "/content/article/update"}, asked)
}

func TestGateTransitions(t *testing.T) {
	g := NewGate("/content/article", NewSet("/content/article/create"))
	require.Equal(t, Unevaluated, g.Status())
	require.False(t, g.Allowed())

	require.True(t, g.Evaluate("").Granted)
	require.Equal(t, Authorized, g.Status())

	require.False(t, g.Evaluate("9").Granted)
	require.Equal(t, Unauthorized, g.Status())
	require.Equal(t, Update, g.Permission().Capability)

	require.True(t, NewGate("/content/article", NewSet("*")).Evaluate("9").Granted)
}

func TestNilCheckerDenies(t *testing.T) {
	require.False(t, Evaluate("/content/article", "", nil).Granted)
}

func TestCasbinCheckerInMemory(t *testing.T) {
	c, err := NewCasbinChecker("", "editor")
	require.NoError(t, err)
	require.False(t, c.Check("/content/article/create"))

	require.NoError(t, c.Allow("editor", "/content/*", "create"))
	require.True(t, c.Check("/content/article/create"))
	require.False(t, c.Check("/content/article/update"))
	require.False(t, c.Check(""))
}

func TestCasbinCheckerFromPolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.csv")
	policy := "p, role:admin, /content/*, *\np, role:viewer, /content/article, update\n"
	require.NoError(t, os.WriteFile(path, []byte(policy), 0o600))

	admin, err := NewCasbinChecker(path, "Admin")
	require.NoError(t, err)
	g := NewGate("/content/article", admin)
	require.True(t, g.Evaluate("").Granted)
	require.True(t, g.Evaluate("1").Granted)

	viewer, err := NewCasbinChecker(path, "viewer")
	require.NoError(t, err)
	g = NewGate("/content/article", viewer)
	require.False(t, g.Evaluate("").Granted)
	require.True(t, g.Evaluate("1").Granted)
}
