package model

import "time"

// Article data model. ID and Owner are assigned by the server: ID by the
// store on creation, Owner from the authenticated principal.
type Article struct {
	ID               string    `json:"id" bson:"_id,omitempty" db:"id"`
	Header           string    `json:"header" bson:"header" db:"header" validate:"required,maxutf16=500"`
	ShortDescription string    `json:"shortDescription" bson:"shortDescription" db:"short_description" validate:"required,maxutf16=1000"`
	Text             string    `json:"text,omitempty" bson:"text,omitempty" db:"text" validate:"required,maxutf16=5000"`
	PublishDate      time.Time `json:"publishDate" bson:"publishDate" db:"publish_date" validate:"required"`
	Authors          []string  `json:"authors" bson:"authors" db:"authors" validate:"required,min=1,max=10,dive,required"`
	Keywords         []string  `json:"keywords" bson:"keywords" db:"keywords" validate:"required,min=1,max=50,dive,required"`
	Owner            string    `json:"owner" bson:"owner" db:"owner"`
}

// ArticleOwner is the owner projection of an Article. It is all that is
// needed to authorize a write.
type ArticleOwner struct {
	ID    string `json:"id" bson:"_id" db:"id"`
	Owner string `json:"owner" bson:"owner" db:"owner"`
}

// ArticleEdit is the client supplied part of an Article.
type ArticleEdit struct {
	Header           string    `json:"header"`
	ShortDescription string    `json:"shortDescription"`
	Text             string    `json:"text"`
	PublishDate      time.Time `json:"publishDate"`
	Authors          []string  `json:"authors"`
	Keywords         []string  `json:"keywords"`
}

// ToArticle copies the editable fields into a new Article. ID and Owner
// are left empty.
func (e *ArticleEdit) ToArticle() *Article {
	return &Article{
		Header:           e.Header,
		ShortDescription: e.ShortDescription,
		Text:             e.Text,
		PublishDate:      e.PublishDate,
		Authors:          append([]string(nil), e.Authors...),
		Keywords:         append([]string(nil), e.Keywords...),
	}
}

// IsOwnedBy reports whether principal may modify the article.
func (o *ArticleOwner) IsOwnedBy(principal string) bool {
	return principal != "" && o.Owner == principal
}
