package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAny(t *testing.T) {
	assert.True(t, HasAny([]string{RoleAdmin}, RoleAdmin))
	assert.True(t, HasAny([]string{RoleViewer, RoleResearcher}, RoleResearcher))
	assert.False(t, HasAny([]string{RoleViewer}, RoleAdmin, RoleResearcher))
	assert.False(t, HasAny(nil, RoleAdmin))
	assert.False(t, HasAny([]string{RoleAdmin}))
}

func TestDefaultRoles(t *testing.T) {
	assert.Equal(t, []string{"admin", "researcher", "viewer"}, DefaultRoles())
}
