package browser

import (
	"path"
	"strings"
)

// Kind selects the preview renderer for a file. It is decided by the
// file name alone, never by actual content.
type Kind int

const (
	// KindNone means no in-page preview: the file is handed out as
	// a direct download instead.
	KindNone Kind = iota
	KindImage
	KindVideo
	KindPDF
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	case KindPDF:
		return "pdf"
	case KindText:
		return "text"
	default:
		return "none"
	}
}

var extKinds = map[string]Kind{
	"jpg": KindImage, "jpeg": KindImage, "png": KindImage, "gif": KindImage, "webp": KindImage,

	"mp4": KindVideo, "webm": KindVideo, "ogg": KindVideo, "mov": KindVideo,

	"pdf": KindPDF,

	"txt": KindText, "md": KindText, "json": KindText, "xml": KindText,
	"js": KindText, "ts": KindText, "py": KindText, "html": KindText,
	"css": KindText, "log": KindText, "java": KindText, "c": KindText, "cpp": KindText,
}

// Classify maps a file name to its preview kind by suffix.
func Classify(name string) Kind {
	ext := strings.TrimPrefix(path.Ext(strings.ToLower(name)), ".")

	return extKinds[ext]
}
