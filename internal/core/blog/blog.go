// Package blog exposes the statically compiled blog posts.
package blog

import "sort"

// All returns every post, newest first
func All() []*Post {
	result := make([]*Post, 0, len(posts))
	for i := range posts {
		result = append(result, &posts[i])
	}
	return result
}

// FindBySlug returns the post with slug, or nil
func FindBySlug(slug string) *Post {
	for i := range posts {
		if posts[i].Slug == slug {
			return &posts[i]
		}
	}
	return nil
}

// FilterByTag returns the posts carrying tag, newest first
func FilterByTag(tag string) []*Post {
	var result []*Post
	for i := range posts {
		if posts[i].HasTag(tag) {
			result = append(result, &posts[i])
		}
	}
	return result
}

// AllTags returns every tag in use, sorted and without duplicates
func AllTags() []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, p := range posts {
		for _, tag := range p.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}
