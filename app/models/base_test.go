package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListValue(t *testing.T) {
	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = StringList{"S", "M"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["S","M"]`, v)
}

func TestStringListScan(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan(`["red","gold"]`))
	assert.Equal(t, StringList{"red", "gold"}, l)

	require.NoError(t, l.Scan([]byte(`[]`)))
	assert.Empty(t, l)

	require.NoError(t, l.Scan(nil))
	assert.Nil(t, l)

	assert.Error(t, l.Scan(42))
	assert.Error(t, l.Scan("not json"))
}

func TestUserPrincipal(t *testing.T) {
	u := User{Base: Base{ID: 12}, Role: "PROFESSIONAL"}
	p := u.Principal()
	assert.Equal(t, uint(12), p.UserID)
	assert.Equal(t, "PROFESSIONAL", p.Role)
}
