package blog

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/calvinalkan/blogbuild/internal/fs"
)

// Marker tokens delimiting the homepage slot.
const (
	SlotOpen  = "-->"
	SlotClose = "<!--END"
)

// slotPattern matches one slot. '.' does not match newlines, so a slot never
// spans lines; within a line the capture is greedy.
var slotPattern = regexp.MustCompile(regexp.QuoteMeta(SlotOpen) + `(.*)` + regexp.QuoteMeta(SlotClose))

// Slot is the first marker region found in a homepage document.
type Slot struct {
	// Start and End are byte offsets of the whole match, markers included.
	Start int
	End   int

	// Current is the text between the markers.
	Current string
}

// FindSlot locates the first marker region in doc.
func FindSlot(doc string) (Slot, bool) {
	loc := slotPattern.FindStringSubmatchIndex(doc)
	if loc == nil {
		return Slot{}, false
	}

	return Slot{Start: loc[0], End: loc[1], Current: doc[loc[2]:loc[3]]}, true
}

// Link is the "latest post" anchor written into the slot.
type Link struct {
	BaseURL string
	Slug    string
	Title   string
}

// URL returns the absolute address of the rendered post.
func (l Link) URL() string {
	return strings.TrimRight(l.BaseURL, "/") + "/" + l.Slug + ".html"
}

// Fragment returns the full replacement text, markers included. Slug and
// title are inserted verbatim.
func (l Link) Fragment() string {
	return SlotOpen + `&nbsp;<a href="` + l.URL() + `" class="blogtitle hover:underline">` + l.Title + `</a>` + SlotClose
}

// PatchHomepage replaces the first slot in doc with link. The replacement is
// literal. If doc has no slot it is returned unchanged with found=false.
func PatchHomepage(doc string, link Link) (string, bool) {
	slot, ok := FindSlot(doc)
	if !ok {
		return doc, false
	}

	return doc[:slot.Start] + link.Fragment() + doc[slot.End:], true
}

// PatchResult describes what PatchHomepageFile did.
type PatchResult struct {
	Path  string
	Link  Link
	Found bool

	// Previous is the slot content before patching; empty when not found.
	Previous string
}

// PatchHomepageFile patches the homepage at path in place.
//
// A missing homepage is an error wrapping [ErrHomepageNotFound]. When the
// document has no slot nothing is written and the result has Found=false,
// leaving the caller to report it.
func PatchHomepageFile(fsys fs.FS, path string, link Link) (PatchResult, error) {
	result := PatchResult{Path: path, Link: link}

	content, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return result, fmt.Errorf("%w: %s", ErrHomepageNotFound, path)
		}

		return result, fmt.Errorf("read homepage: %w", err)
	}

	doc := string(content)

	slot, found := FindSlot(doc)
	if !found {
		return result, nil
	}

	result.Found = true
	result.Previous = slot.Current

	patched := doc[:slot.Start] + link.Fragment() + doc[slot.End:]

	writeErr := fsys.WriteFileAtomic(path, []byte(patched), 0)
	if writeErr != nil {
		return result, fmt.Errorf("write homepage: %w", writeErr)
	}

	return result, nil
}
