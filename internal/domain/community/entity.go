// Package community models discussion communities, their members and posts.
package community

import (
	"path"
	"strings"
	"time"

	"github.com/turtacn/H2Siting/pkg/errors"
)

const (
	// RecentPostsLimit bounds the community feed.
	RecentPostsLimit = 20
	// UserPostsLimit bounds a member's own post list.
	UserPostsLimit = 10
)

// Community is a discussion group users can join.
type Community struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	MemberCount int64     `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewCommunity validates and builds a community.
func NewCommunity(name, description string) (*Community, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.InvalidParam("community name is required")
	}
	return &Community{Name: name, Description: strings.TrimSpace(description)}, nil
}

// Attachment is a file stored alongside a post. Filepath is the object key.
type Attachment struct {
	ID       int64  `json:"id"`
	PostID   int64  `json:"post_id"`
	Filename string `json:"filename"`
	Filepath string `json:"filepath"`
}

// Post is a message a member published to a community.
type Post struct {
	ID            int64       `json:"id"`
	UserID        int64       `json:"user_id"`
	CommunityID   int64       `json:"community_id"`
	Content       string      `json:"content"`
	CreatedAt     time.Time   `json:"created_at"`
	Username      string      `json:"username,omitempty"`
	CommunityName string      `json:"community_name,omitempty"`
	File          *Attachment `json:"file,omitempty"`
}

// NewPost validates and builds a post.
func NewPost(userID, communityID int64, content string) (*Post, error) {
	if userID <= 0 || communityID <= 0 {
		return nil, errors.New(errors.ErrCodePostInvalid, "post requires a user and a community")
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.New(errors.ErrCodePostInvalid, "post content is required")
	}
	return &Post{UserID: userID, CommunityID: communityID, Content: content}, nil
}

// Stats are the headline community counters.
type Stats struct {
	ActiveMembers    int64 `json:"active_members"`
	TotalPosts       int64 `json:"total_posts"`
	TotalCommunities int64 `json:"total_communities"`
}

// SecureFilename reduces a client-supplied name to a safe base name. An
// empty result means the name is unusable.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}

//Personal.AI order the ending
