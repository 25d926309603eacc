package models

// PostLike and CommentLike enforce the one-like-per-user-per-target rule
// with a unique index rather than application-level locking, so a racing
// second insert fails with a duplicate-key error.

type PostLike struct {
	BaseModel

	UserID uint `gorm:"not null;uniqueIndex:idx_user_post_like"`
	PostID uint `gorm:"not null;uniqueIndex:idx_user_post_like"`

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Post Post `gorm:"foreignKey:PostID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type CommentLike struct {
	BaseModel

	UserID    uint `gorm:"not null;uniqueIndex:idx_user_comment_like"`
	CommentID uint `gorm:"not null;uniqueIndex:idx_user_comment_like"`

	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Comment Comment `gorm:"foreignKey:CommentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
