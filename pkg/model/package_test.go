package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackageRefString(t *testing.T) {
	tests := []struct {
		name string
		ref  PackageRef
		want string
	}{
		{
			name: "with arch",
			ref:  PackageRef{Name: "zsh", Arch: "amd64", Version: "5.9-4"},
			want: "zsh:amd64=5.9-4",
		},
		{
			name: "without arch",
			ref:  PackageRef{Name: "zsh", Version: "5.9-4"},
			want: "zsh=5.9-4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ref.String())
		})
	}
}

func TestPackageRefAsMapKey(t *testing.T) {
	seen := map[PackageRef]bool{}
	a := PackageRef{Name: "zsh", Arch: "amd64", Version: "5.9-4"}
	b := PackageRef{Name: "zsh", Arch: "amd64", Version: "5.9-4"}
	seen[a] = true
	assert.True(t, seen[b], "identical refs must hash equal")

	c := PackageRef{Name: "zsh", Arch: "arm64", Version: "5.9-4"}
	assert.False(t, seen[c], "differing arch must not collide")
}

func TestOperationInverse(t *testing.T) {
	op := Operation{Kind: OpInstall, Packages: []string{"a", "b"}}
	inv := op.Inverse()
	assert.Equal(t, OpRemove, inv.Kind)
	assert.Equal(t, op.Packages, inv.Packages)
	assert.Equal(t, OpInstall, inv.Inverse().Kind)
}
