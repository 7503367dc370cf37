package community

import "context"

// Repository defines the persistence contract for communities and posts.
type Repository interface {
	Create(ctx context.Context, c *Community) error
	GetByID(ctx context.Context, id int64) (*Community, error)
	// Search matches name or description case-insensitively. An empty
	// query lists every community.
	Search(ctx context.Context, query string) ([]*Community, error)
	// ListByIDs returns communities in the order of ids.
	ListByIDs(ctx context.Context, ids []int64) ([]*Community, error)
	// Join reports whether a new membership was created.
	Join(ctx context.Context, userID, communityID int64) (bool, error)
	// JoinedCommunity returns nil, nil when the user has joined none.
	JoinedCommunity(ctx context.Context, userID int64) (*Community, error)
	// CreatePost stores the post and optional attachment atomically.
	CreatePost(ctx context.Context, p *Post, file *Attachment) error
	RecentPosts(ctx context.Context, communityID int64, limit int) ([]*Post, error)
	UserPosts(ctx context.Context, userID int64, limit int) ([]*Post, error)
	Stats(ctx context.Context) (*Stats, error)
}

// SearchIndex is an optional full-text index over communities.
type SearchIndex interface {
	Index(ctx context.Context, c *Community) error
	// Search returns matching community ids, best first.
	Search(ctx context.Context, query string) ([]int64, error)
}

//Personal.AI order the ending
