package purge

import "strings"

// PostKind is the deletion flow a post requires, derived purely from the
// shape of its href
type PostKind int

const (
	// KindOther posts are deleted through the overflow-menu flow
	KindOther PostKind = iota
	// KindImage posts expose a direct "Delete image" control
	KindImage
	// KindAlbum posts are ungrouped: the container is removed, member
	// images survive
	KindAlbum
)

func (k PostKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindAlbum:
		return "album"
	default:
		return "other"
	}
}

// Classify maps an href to its PostKind. The album prefix check runs first
// because it is unambiguous; the image heuristic (an /image/ segment or a
// 7-character final path segment) only applies to non-albums.
func Classify(href string) PostKind {
	if strings.HasPrefix(href, "/a/") || strings.HasPrefix(href, "/gallery/") {
		return KindAlbum
	}
	last := href
	if i := strings.LastIndexByte(href, '/'); i >= 0 {
		last = href[i+1:]
	}
	if strings.Contains(href, "/image/") || (strings.HasPrefix(href, "/") && len(last) == 7) {
		return KindImage
	}
	return KindOther
}
