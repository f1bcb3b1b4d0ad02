package browser

import (
	"path"
	"strings"

	"signscraper/pkg/dictionary"
	"signscraper/pkg/errors"
	"signscraper/pkg/models"
)

// ParseModalData pulls the video code and label out of a card's
// onclick="modalData('D0001B','địa chỉ','...','false')" handler. The split
// respects quoting so labels containing commas survive.
func ParseModalData(onclick string) (code, label string, ok bool) {
	idx := strings.Index(onclick, "modalData(")
	if idx < 0 {
		return "", "", false
	}
	rest := onclick[idx+len("modalData("):]
	end := strings.LastIndex(rest, ")")
	if end < 0 {
		return "", "", false
	}
	args := splitArgs(rest[:end])
	if len(args) < 2 {
		return "", "", false
	}
	return args[0], args[1], args[0] != ""
}

// splitArgs splits a JS argument list on top-level commas, honoring single
// and double quotes.
func splitArgs(s string) []string {
	var args []string
	var cur strings.Builder
	var quote byte

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				cur.WriteByte(c)
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ',':
			args = append(args, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	args = append(args, strings.TrimSpace(cur.String()))
	return args
}

// CodeFromThumb derives the video code from a thumbnail image URL, e.g.
// ".../thumbs/D0001B.png" -> "D0001B". Returns "" when there is nothing to
// derive from.
func CodeFromThumb(src string) string {
	if src == "" {
		return ""
	}
	base := path.Base(src)
	if i := strings.Index(base, "?"); i >= 0 {
		base = base[:i]
	}
	code := strings.TrimSuffix(base, path.Ext(base))
	if code == "." || code == "/" {
		return ""
	}
	return code
}

// ExtractFromCard turns a raw card into an absolute video URL and a label,
// without touching the browser. The modalData handler is the primary source;
// the thumbnail filename and caption are the fallback. Extraction failures
// report which field was missing.
func ExtractFromCard(card models.Card) (videoURL, label string, err error) {
	code, label, ok := ParseModalData(card.OnClick)
	if !ok {
		code = CodeFromThumb(card.ThumbSrc)
		label = card.Caption
	}
	if code == "" {
		return "", "", errors.NewExtraction(errors.ReasonMissingVideo)
	}

	label = strings.TrimSpace(label)
	if label == "" {
		// The grid caption is the last resort before giving up
		label = strings.TrimSpace(card.Caption)
	}
	if label == "" {
		return "", "", errors.NewExtraction(errors.ReasonEmptyLabel)
	}

	videoURL = dictionary.VideoURL(code)
	return videoURL, label, nil
}

// NormalizeVideoURL makes a modal-sourced video reference absolute against
// the site origin.
func NormalizeVideoURL(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", errors.NewExtraction(errors.ReasonMissingVideo)
	}
	resolved, err := dictionary.ResolveURL(dictionary.BaseURL, src)
	if err != nil {
		return "", errors.NewExtraction(errors.ReasonMissingVideo)
	}
	return resolved, nil
}
