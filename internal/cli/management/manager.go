// Package management provides the operator-facing CLI: an interactive mode
// built on huh forms plus JSON automation commands for scripting. It talks
// to the same auth service and database the HTTP server uses.
package management

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/andrew/ai-usage-monitor/internal/auth"
	"github.com/andrew/ai-usage-monitor/internal/database"
)

// Manager handles interactive and scripted administration
type Manager struct {
	db   *database.DB
	auth *auth.Service
}

// NewManager creates a new management CLI
func NewManager(db *database.DB, authService *auth.Service) *Manager {
	return &Manager{db: db, auth: authService}
}

// Run starts the interactive management loop
func (m *Manager) Run() error {
	for {
		var action string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("AI Usage Monitor — Management").
					Options(
						huh.NewOption("List users", "list-users"),
						huh.NewOption("Create user", "create-user"),
						huh.NewOption("List platforms for a user", "list-platforms"),
						huh.NewOption("Quit", "quit"),
					).
					Value(&action),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}

		switch action {
		case "list-users":
			if err := m.listUsers(); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		case "create-user":
			if err := m.createUser(); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		case "list-platforms":
			if err := m.listPlatforms(); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		case "quit":
			return nil
		}
	}
}

func (m *Manager) listUsers() error {
	users, err := m.db.ListUsers(context.Background())
	if err != nil {
		return err
	}

	if len(users) == 0 {
		fmt.Println("No users registered.")
		return nil
	}

	for _, u := range users {
		fmt.Printf("%s  %s  %q  created %s\n",
			u.ID, u.Email, u.Name, u.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func (m *Manager) createUser() error {
	var email, password, name string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(&email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
			huh.NewInput().Title("Name (optional)").Value(&name),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	user, _, err := m.auth.Register(context.Background(), email, password, name)
	if err != nil {
		return err
	}

	fmt.Printf("Created user %s (%s)\n", user.Email, user.ID)
	return nil
}

func (m *Manager) listPlatforms() error {
	var email string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("User email").Value(&email),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	return m.printPlatforms(email)
}

func (m *Manager) printPlatforms(email string) error {
	ctx := context.Background()

	user, err := m.db.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("no user with email %q", email)
	}

	platforms, err := m.db.ListPlatforms(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(platforms) == 0 {
		fmt.Println("No platforms configured.")
		return nil
	}

	for _, p := range platforms {
		quota := "none"
		if p.MonthlyQuota != nil {
			quota = fmt.Sprintf("%d", *p.MonthlyQuota)
		}
		fmt.Printf("%s  %s (%s)  quota=%s threshold=%d%% active=%v\n",
			p.ID, p.Name, p.Provider, quota, p.AlertThreshold, p.IsActive)
	}
	return nil
}

// AddUserInput is the JSON shape accepted by AddUserJSON
type AddUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// AddUserJSON creates a user from a JSON string (for scripting)
func (m *Manager) AddUserJSON(input string) {
	var req AddUserInput
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		fmt.Fprintf(os.Stderr, `{"error": "invalid JSON: %v"}`+"\n", err)
		os.Exit(1)
	}

	user, _, err := m.auth.Register(context.Background(), req.Email, req.Password, req.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, `{"error": %q}`+"\n", err.Error())
		os.Exit(1)
	}

	out, _ := json.Marshal(user)
	fmt.Println(string(out))
}

// ListUsersJSON prints all users as JSON (for scripting)
func (m *Manager) ListUsersJSON() {
	users, err := m.db.ListUsers(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, `{"error": %q}`+"\n", err.Error())
		os.Exit(1)
	}

	out, _ := json.Marshal(map[string]interface{}{"users": users})
	fmt.Println(string(out))
}

// ListPlatformsJSON prints a user's platforms as JSON (for scripting)
func (m *Manager) ListPlatformsJSON(email string) {
	ctx := context.Background()

	user, err := m.db.GetUserByEmail(ctx, email)
	if err != nil {
		fmt.Fprintf(os.Stderr, `{"error": %q}`+"\n", err.Error())
		os.Exit(1)
	}
	if user == nil {
		fmt.Fprintf(os.Stderr, `{"error": "no user with email %s"}`+"\n", email)
		os.Exit(1)
	}

	platforms, err := m.db.ListPlatforms(ctx, user.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, `{"error": %q}`+"\n", err.Error())
		os.Exit(1)
	}

	out, _ := json.Marshal(map[string]interface{}{"platforms": platforms})
	fmt.Println(string(out))
}
