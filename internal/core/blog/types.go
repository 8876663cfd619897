package blog

import "time"

// Text holds a string in each supported language
type Text struct {
	EN string
	FR string
}

// For returns the text in lang, falling back to English
func (t Text) For(lang string) string {
	if lang == "fr" && t.FR != "" {
		return t.FR
	}
	return t.EN
}

// Post is a statically compiled blog post. Content is trusted HTML.
type Post struct {
	Date             time.Time
	Title            Text
	Summary          Text
	Content          Text
	Slug             string
	Category         string
	Tags             []string
	ReadingMinutesEN int
	ReadingMinutesFR int
	Featured         bool
}

// ReadingMinutes returns the estimated reading time in lang
func (p *Post) ReadingMinutes(lang string) int {
	if lang == "fr" && p.ReadingMinutesFR > 0 {
		return p.ReadingMinutesFR
	}
	return p.ReadingMinutesEN
}

// HasTag reports whether the post carries tag
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
