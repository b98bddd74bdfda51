package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	userService "userdesk/internal/application/user"
	"userdesk/internal/domain/user"
)

var errUserNotFound = errors.New("user not found")

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users in the local store",
	}
	cmd.PersistentFlags().Bool("json", false, "print users as JSON")

	cmd.AddCommand(
		newUsersListCmd(),
		newUsersLoadCmd(),
		newUsersGetCmd(),
		newUsersCreateCmd(),
		newUsersUpdateCmd(),
		newUsersDeleteCmd(),
	)
	return cmd
}

func newUsersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				users, err := a.users.List(cmd.Context())
				if err != nil {
					return err
				}
				return printUsers(cmd, users...)
			})
		},
	}
}

func newUsersLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Load users from the remote directory, falling back to the local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				users, source, err := a.users.Load(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON, _ := cmd.Flags().GetBool("json"); !asJSON {
					fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d users from %s\n", len(users), source)
				}
				return printUsers(cmd, users...)
			})
		},
	}
}

func newUsersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				u, err := a.users.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if u == nil {
					return fmt.Errorf("%w: %s", errUserNotFound, args[0])
				}
				return printUsers(cmd, *u)
			})
		},
	}
}

func newUsersCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				created, err := a.users.CreateFromForm(cmd.Context(), formFromFlags(cmd, userService.Form{}))
				if err != nil {
					return err
				}
				return printUsers(cmd, created)
			})
		},
	}
	addFormFlags(cmd)
	return cmd
}

func newUsersUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				users, err := a.users.List(cmd.Context())
				if err != nil {
					return err
				}

				var updated *user.User
				var updateErr error
				table := UserTable{
					Users: users,
					OnEdit: func(current user.User) {
						form := formFromFlags(cmd, formFromUser(current))
						updated, updateErr = a.users.UpdateFromForm(cmd.Context(), current.ID, form)
					},
				}
				if !table.Edit(args[0]) {
					return fmt.Errorf("%w: %s", errUserNotFound, args[0])
				}
				if updateErr != nil {
					return updateErr
				}
				if updated == nil {
					return fmt.Errorf("%w: %s", errUserNotFound, args[0])
				}
				return printUsers(cmd, *updated)
			})
		},
	}
	addFormFlags(cmd)
	return cmd
}

func newUsersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				users, err := a.users.List(cmd.Context())
				if err != nil {
					return err
				}

				var removed bool
				var deleteErr error
				table := UserTable{
					Users: users,
					OnDelete: func(id string) {
						removed, deleteErr = a.users.Delete(cmd.Context(), id)
					},
				}
				if !table.Delete(args[0]) {
					return fmt.Errorf("%w: %s", errUserNotFound, args[0])
				}
				if deleteErr != nil {
					return deleteErr
				}
				if !removed {
					return fmt.Errorf("%w: %s", errUserNotFound, args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func withApp(cmd *cobra.Command, fn func(a *app) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func addFormFlags(cmd *cobra.Command) {
	cmd.Flags().String("username", "", "username (required on create)")
	cmd.Flags().String("email", "", "email address (required on create)")
	cmd.Flags().String("state", "", "state or city")
	cmd.Flags().String("country", "", "country")
	cmd.Flags().String("age", "", "age in years")
}

// formFromFlags overlays the flags that were set onto base
func formFromFlags(cmd *cobra.Command, base userService.Form) userService.Form {
	flags := cmd.Flags()
	set := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	set("username", &base.Username)
	set("email", &base.Email)
	set("state", &base.State)
	set("country", &base.Country)
	set("age", &base.Age)
	return base
}

func formFromUser(u user.User) userService.Form {
	return userService.Form{
		Username: u.Username,
		Email:    u.Email,
		State:    u.State,
		Country:  u.Country,
		Age:      strconv.Itoa(u.Age),
	}
}

func printUsers(cmd *cobra.Command, users ...user.User) error {
	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if users == nil {
			users = []user.User{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(users)
	}
	return UserTable{Users: users}.Render(out)
}
