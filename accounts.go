package bcgt

import (
	"regexp"
	"strings"
)

// maxAccountDepth caps the attribute inheritance walk, so a malformed
// hierarchy (for instance one produced by a hand-edited ledger) cannot send
// the lookup into an unbounded climb.
const maxAccountDepth = 16

// AccountTree holds per-account attributes of the operator's account
// hierarchy. Attributes not set on an account are inherited from the nearest
// ancestor that sets them, falling back to tree-wide defaults.
type AccountTree struct {
	attrs    map[string]map[string]string
	defaults map[string]string
}

// NewAccountTree creates an empty tree with the given fallback defaults.
func NewAccountTree(defaults map[string]string) *AccountTree {
	if defaults == nil {
		defaults = make(map[string]string)
	}
	return &AccountTree{
		attrs:    make(map[string]map[string]string),
		defaults: defaults,
	}
}

// Declare records the attributes of one account, merging over any previous
// declaration.
func (t *AccountTree) Declare(account string, attrs map[string]string) {
	m, ok := t.attrs[account]
	if !ok {
		m = make(map[string]string, len(attrs))
		t.attrs[account] = m
	}
	for k, v := range attrs {
		m[k] = v
	}
}

// Accounts returns the declared account names in no particular order.
func (t *AccountTree) Accounts() []string {
	names := make([]string, 0, len(t.attrs))
	for name := range t.attrs {
		names = append(names, name)
	}
	return names
}

// parentAccount strips the last colon-separated segment of an account name,
// returning "" at the root.
func parentAccount(account string) string {
	i := strings.LastIndexByte(account, ':')
	if i < 0 {
		return ""
	}
	return account[:i]
}

// sansRoot removes the first colon-separated segment of an account name.
func sansRoot(account string) string {
	i := strings.IndexByte(account, ':')
	if i < 0 {
		return account
	}
	return account[i+1:]
}

// Lookup resolves an attribute for an account, walking up the account tree
// iteratively, depth-capped, and falling back to the tree defaults.
func (t *AccountTree) Lookup(account, key string) (string, bool) {
	for depth := 0; account != "" && depth < maxAccountDepth; depth++ {
		if value, ok := t.attrs[account][key]; ok {
			return value, true
		}
		account = parentAccount(account)
	}
	value, ok := t.defaults[key]
	return value, ok
}

var countryCodeRE = regexp.MustCompile(`^[A-Z][A-Z]$`)

// Abbreviate computes the short display name of an account: the name below
// the nearest ancestor marked with the "root" attribute, without the account
// type, and without a two-letter country code segment if there is one.
func (t *AccountTree) Abbreviate(account string) string {
	abbreviated := account
	for parent, depth := parentAccount(account), 0; parent != "" && depth < maxAccountDepth; depth++ {
		if t.attrs[parent]["root"] == "true" {
			abbreviated = parent
			break
		}
		parent = parentAccount(parent)
	}

	abbreviated = sansRoot(abbreviated)
	if first, _, found := strings.Cut(abbreviated, ":"); found && countryCodeRE.MatchString(first) {
		abbreviated = sansRoot(abbreviated)
	}
	return abbreviated
}
