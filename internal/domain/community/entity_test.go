package community

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/H2Siting/pkg/errors"
)

func TestNewCommunity(t *testing.T) {
	c, err := NewCommunity("  Gujarat Builders ", " ports and pipelines ")
	require.NoError(t, err)
	assert.Equal(t, "Gujarat Builders", c.Name)
	assert.Equal(t, "ports and pipelines", c.Description)

	_, err = NewCommunity("   ", "x")
	assert.Error(t, err)
}

func TestNewPost(t *testing.T) {
	p, err := NewPost(1, 2, "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.UserID)
	assert.Equal(t, int64(2), p.CommunityID)

	_, err = NewPost(1, 2, "  ")
	assert.True(t, errors.IsCode(err, errors.ErrCodePostInvalid))

	_, err = NewPost(0, 2, "hello")
	assert.True(t, errors.IsCode(err, errors.ErrCodePostInvalid))
}

func TestSecureFilename(t *testing.T) {
	cases := map[string]string{
		"report.pdf":                "report.pdf",
		"../../etc/passwd":          "passwd",
		`C:\Users\me\site plan.png`: "site_plan.png",
		"résumé.txt":                "rsum.txt",
		"..":                        "",
		"___":                       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, SecureFilename(in), in)
	}
}

//Personal.AI order the ending
