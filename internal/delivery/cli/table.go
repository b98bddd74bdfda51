package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"userdesk/internal/domain/user"
)

// UserTable renders a list of users and dispatches row actions.
// OnEdit and OnDelete are optional; a nil callback does nothing.
type UserTable struct {
	Users    []user.User
	OnEdit   func(u user.User)
	OnDelete func(id string)
}

// Render writes the table, or a placeholder line when there are no users
func (t UserTable) Render(w io.Writer) error {
	if len(t.Users) == 0 {
		_, err := fmt.Fprintln(w, "No users yet")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tSTATE\tCOUNTRY\tAGE")
	for _, u := range t.Users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, orDash(u.Username), orDash(u.Email), orDash(u.State), orDash(u.Country), strconv.Itoa(u.Age))
	}
	return tw.Flush()
}

// Edit invokes OnEdit with the row matching id. It reports whether the row exists.
func (t UserTable) Edit(id string) bool {
	u, ok := t.find(id)
	if !ok {
		return false
	}
	if t.OnEdit != nil {
		t.OnEdit(u)
	}
	return true
}

// Delete invokes OnDelete with id when the row exists
func (t UserTable) Delete(id string) bool {
	if _, ok := t.find(id); !ok {
		return false
	}
	if t.OnDelete != nil {
		t.OnDelete(id)
	}
	return true
}

func (t UserTable) find(id string) (user.User, bool) {
	for _, u := range t.Users {
		if u.ID == id {
			return u, true
		}
	}
	return user.User{}, false
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
