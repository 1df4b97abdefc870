//go:build !sqlite

package snapshot

import "fmt"

func newSQLiteStore(_ string) (Store, error) {
	return nil, fmt.Errorf("snapshot: sqlite backend unavailable in this build; rebuild with -tags sqlite")
}
