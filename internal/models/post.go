package models

type Post struct {
	BaseModel

	AuthorID uint   `gorm:"not null;index"`
	Title    string `gorm:"not null"`
	Body     string `gorm:"not null"`

	// Relationships
	Author   User       `gorm:"foreignKey:AuthorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tags     []PostTag  `gorm:"foreignKey:PostID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Comments []Comment  `gorm:"foreignKey:PostID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Likes    []PostLike `gorm:"foreignKey:PostID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// PostTag stores one tag string per row. The tag set on a post is the
// collection of its rows, replaced wholesale when the post is updated.
type PostTag struct {
	BaseModel

	PostID uint   `gorm:"not null;uniqueIndex:idx_post_tag"`
	Tag    string `gorm:"not null;uniqueIndex:idx_post_tag"`

	Post Post `gorm:"foreignKey:PostID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
