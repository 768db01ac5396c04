package purge

import (
	"fmt"
	"strings"
)

// Imgur DOM strategies.
// These are isolated here because the site changes its DOM frequently.
// Update these when deletion flows break. Each logical action carries an
// ordered list of alternatives; drivers take the first that works.

// Strategy is one named way to locate the element for a logical action
type Strategy struct {
	Name string
	Sel  Selector
}

func css(q string) Selector   { return Selector{Query: q, By: ByCSS} }
func xpath(q string) Selector { return Selector{Query: q, By: ByXPath} }

// buttonWithText matches a button whose text contains text
func buttonWithText(text string) Selector {
	return xpath(fmt.Sprintf(`//button[contains(., %q)]`, text))
}

// roleButtonWithText matches any role=button element containing text
func roleButtonWithText(text string) Selector {
	return xpath(fmt.Sprintf(`//*[@role='button'][contains(., %q)]`, text))
}

// buttonWithAriaLabel matches a button whose aria-label contains substr,
// case-insensitively (XPath 1.0 translate lowering)
func buttonWithAriaLabel(substr string) Selector {
	return xpath(fmt.Sprintf(
		`//button[contains(translate(@aria-label, 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'), %q)]`,
		strings.ToLower(substr)))
}

// dialogButtonWithText scopes the text match to an open dialog
func dialogButtonWithText(text string) Selector {
	return xpath(fmt.Sprintf(`//*[@role='dialog']//button[contains(., %q)]`, text))
}

// "All" tab on the posts grid, so public and hidden posts both appear
var allTabStrategies = []Strategy{
	{Name: "role-tab", Sel: xpath(`//*[@role='tab'][translate(normalize-space(.), 'AL', 'al')='all']`)},
	{Name: "anchor-text", Sel: xpath(`//a[normalize-space(.)='All']`)},
	{Name: "button-text", Sel: xpath(`//button[normalize-space(.)='All']`)},
}

// "Delete post" control on an album page
var deletePostStrategies = []Strategy{
	{Name: "button-text", Sel: buttonWithText("Delete post")},
	{Name: "role-button", Sel: roleButtonWithText("Delete post")},
	{Name: "aria-label", Sel: buttonWithAriaLabel("delete post")},
	{Name: "anchor-text", Sel: xpath(`//a[contains(., 'Delete post')]`)},
}

// Album confirmation modal. "Delete Post Only" is listed first: it is the
// ungroup choice, distinct from anything that would delete member images.
var deletePostConfirmStrategies = []Strategy{
	{Name: "post-only", Sel: buttonWithText("Delete Post Only")},
	{Name: "delete-post", Sel: buttonWithText("Delete Post")},
	{Name: "dialog-post-only", Sel: dialogButtonWithText("Delete Post Only")},
	{Name: "dialog-delete-post", Sel: dialogButtonWithText("Delete Post")},
}

// direct "Delete image" control on a single-image page
var deleteImageButtonStrategies = []Strategy{
	{Name: "button-text", Sel: buttonWithText("Delete image")},
	{Name: "role-button", Sel: roleButtonWithText("Delete image")},
	{Name: "aria-label", Sel: buttonWithAriaLabel("delete image")},
}

// affirmative control in the single-image confirmation dialog
var confirmDeleteImageStrategies = []Strategy{
	{Name: "yes-delete-it", Sel: buttonWithText("Yes, Delete It")},
	{Name: "dialog-yes-delete-it", Sel: dialogButtonWithText("Yes, Delete It")},
}

// cancel/dismiss controls, exercised by dry runs to close the dialog
var cancelStrategies = []Strategy{
	{Name: "button-cancel", Sel: buttonWithText("Cancel")},
	{Name: "role-cancel", Sel: roleButtonWithText("Cancel")},
	{Name: "aria-cancel", Sel: buttonWithAriaLabel("cancel")},
	{Name: "button-close", Sel: buttonWithText("Close")},
	{Name: "dialog-cancel", Sel: dialogButtonWithText("Cancel")},
}

// overflow ("more options") menu opener on generic post pages
var overflowMenuStrategies = []Strategy{
	{Name: "aria-more", Sel: buttonWithAriaLabel("more")},
	{Name: "aria-options", Sel: buttonWithAriaLabel("options")},
	{Name: "class-more", Sel: xpath(`//button[.//*[contains(@class, 'more')]]`)},
	{Name: "class-menu", Sel: xpath(`//button[.//*[contains(@class, 'menu')]]`)},
	{Name: "class-dots", Sel: xpath(`//button[.//*[contains(@class, 'dots')]]`)},
	{Name: "glyph-ellipsis", Sel: buttonWithText("⋯")},
	{Name: "glyph-dots", Sel: buttonWithText("...")},
}

// ariaScanSubstrings drive the last-resort scan over every button's
// aria-label when no overflow selector matched
var ariaScanSubstrings = []string{"more", "menu", "options"}

// "Delete image" entry inside the overflow menu
var menuDeleteImageStrategies = []Strategy{
	{Name: "menuitem", Sel: xpath(`//*[@role='menuitem'][contains(., 'Delete image')]`)},
	{Name: "menu-button", Sel: xpath(`//*[@role='menu']//button[contains(., 'Delete image')]`)},
	{Name: "button-text", Sel: buttonWithText("Delete image")},
	{Name: "anchor-text", Sel: xpath(`//a[contains(., 'Delete image')]`)},
}

// destructive choice in the overflow-menu dialog: "Delete from account",
// distinct from the non-destructive "Remove from post" option
var deleteFromAccountStrategies = []Strategy{
	{Name: "dialog-class", Sel: css(`button.DeleteImageDialog-confirm--accountRemove`)},
	{Name: "button-text", Sel: buttonWithText("Delete from account")},
	{Name: "dialog-text", Sel: dialogButtonWithText("Delete from account")},
	{Name: "aria-label", Sel: buttonWithAriaLabel("delete from account")},
	{Name: "dialog-red", Sel: xpath(`//*[@role='dialog']//button[.//*[contains(@class, 'red')]]`)},
	{Name: "dialog-danger", Sel: xpath(`//*[@role='dialog']//button[.//*[contains(@class, 'danger')]]`)},
}

// generic confirmation controls tried after a destructive choice
var finalConfirmStrategies = []Strategy{
	{Name: "yes-delete-it", Sel: buttonWithText("Yes, Delete It")},
	{Name: "button-delete", Sel: buttonWithText("Delete")},
	{Name: "button-confirm", Sel: buttonWithText("Confirm")},
	{Name: "data-action", Sel: css(`button[data-action="confirm"]`)},
	{Name: "dialog-delete", Sel: dialogButtonWithText("Delete")},
	{Name: "dialog-confirm", Sel: dialogButtonWithText("Confirm")},
}

// menuIndicatorGlyph marks one image's overflow menu inside an album; its
// count approximates the album size (logging only)
const menuIndicatorGlyph = "..."
