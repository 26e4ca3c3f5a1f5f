package ident_test

import (
	"testing"

	"github.com/mna/l1vm/lang/ident"
	"github.com/stretchr/testify/require"
)

func TestInternDedup(t *testing.T) {
	in := ident.NewInterner()

	a1 := in.Intern("a")
	b := in.Intern("b")
	a2 := in.Intern("a")

	require.Equal(t, a1, a2)
	require.NotEqual(t, a1, b)
	require.Equal(t, 2, in.Len())
	require.Equal(t, "a", in.Name(a1))
	require.Equal(t, "b", in.Name(b))
}

func TestInternOrderStable(t *testing.T) {
	in := ident.NewInterner()
	names := []string{"x", "y", "z", "x", "y"}
	var handles []ident.Handle
	for _, n := range names {
		handles = append(handles, in.Intern(n))
	}
	require.Equal(t, handles[0], handles[3])
	require.Equal(t, handles[1], handles[4])
	require.Equal(t, 3, in.Len())
}
