// Package seed loads bootstrap data for a fresh installation.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"church-admin-go/internal/domain/assignment"
	"church-admin-go/internal/domain/church"
	"church-admin-go/internal/domain/churchuser"
	"church-admin-go/internal/identity"
	"church-admin-go/pkg/logger"
	"gopkg.in/yaml.v3"
)

type File struct {
	Admin    Admin    `yaml:"admin"`
	Churches []Church `yaml:"churches"`
}

type Admin struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type Church struct {
	Name           string   `yaml:"name"`
	Location       string   `yaml:"location"`
	PastorName     string   `yaml:"pastorName"`
	PastorPhone    string   `yaml:"pastorPhone"`
	PastorEmail    string   `yaml:"pastorEmail"`
	PastorPhotoURL string   `yaml:"pastorPhotoURL"`
	Attendance     int      `yaml:"attendance"`
	Tithes         float64  `yaml:"tithes"`
	PendingPastors []string `yaml:"pendingPastors"`
}

type Identities interface {
	CreateIdentity(ctx context.Context, email, password, name string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
}

type Admins interface {
	EnsureAdmin(ctx context.Context, authUserID, email, name string) (*churchuser.ChurchUser, error)
}

type Churches interface {
	EnsureByName(ctx context.Context, input church.Input) (*church.Church, bool, error)
}

type Assignments interface {
	CreatePendingAssignment(ctx context.Context, churchID, pastorName, createdByAdminID string) (*assignment.PendingAssignment, error)
}

type Result struct {
	AdminID            string
	ChurchesCreated    int
	ChurchesExisting   int
	AssignmentsCreated int
	AssignmentsSkipped int
}

type Seeder struct {
	identities  Identities
	admins      Admins
	churches    Churches
	assignments Assignments
	log         logger.Logger
}

func NewSeeder(identities Identities, admins Admins, churches Churches, assignments Assignments, log logger.Logger) *Seeder {
	return &Seeder{
		identities:  identities,
		admins:      admins,
		churches:    churches,
		assignments: assignments,
		log:         log,
	}
}

func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (File, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return File{}, fmt.Errorf("parse seed file: %w", err)
	}
	if err := file.Validate(); err != nil {
		return File{}, err
	}
	return file, nil
}

func (f File) Validate() error {
	if strings.TrimSpace(f.Admin.Email) == "" || f.Admin.Password == "" {
		return errors.New("seed: admin email and password are required")
	}
	seen := make(map[string]struct{}, len(f.Churches))
	for i, item := range f.Churches {
		name := strings.ToLower(strings.TrimSpace(item.Name))
		if name == "" {
			return fmt.Errorf("seed: churches[%d]: name is required", i)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("seed: churches[%d]: duplicate name %q", i, item.Name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Apply is idempotent: existing identities, churches and open assignments are reused.
func (s *Seeder) Apply(ctx context.Context, file File) (Result, error) {
	var result Result

	authUserID, err := s.adminIdentity(ctx, file.Admin)
	if err != nil {
		return result, err
	}
	admin, err := s.admins.EnsureAdmin(ctx, authUserID, file.Admin.Email, file.Admin.Name)
	if err != nil {
		return result, fmt.Errorf("seed admin: %w", err)
	}
	result.AdminID = admin.ID
	s.log.Info("seed: admin ready", "email", admin.Email)

	for _, item := range file.Churches {
		created, isNew, err := s.churches.EnsureByName(ctx, church.Input{
			Name:           item.Name,
			Location:       item.Location,
			PastorName:     item.PastorName,
			PastorPhone:    item.PastorPhone,
			PastorEmail:    item.PastorEmail,
			PastorPhotoURL: item.PastorPhotoURL,
			Attendance:     item.Attendance,
			Tithes:         item.Tithes,
		})
		if err != nil {
			return result, fmt.Errorf("seed church %q: %w", item.Name, err)
		}
		if isNew {
			result.ChurchesCreated++
			s.log.Info("seed: church created", "church_id", created.ID, "name", created.Name)
		} else {
			result.ChurchesExisting++
		}

		for _, pastorName := range item.PendingPastors {
			_, err := s.assignments.CreatePendingAssignment(ctx, created.ID, pastorName, admin.ID)
			switch {
			case err == nil:
				result.AssignmentsCreated++
			case errors.Is(err, assignment.ErrDuplicateAssignment):
				result.AssignmentsSkipped++
			default:
				return result, fmt.Errorf("seed assignment %q for %q: %w", pastorName, item.Name, err)
			}
		}
	}

	return result, nil
}

func (s *Seeder) adminIdentity(ctx context.Context, admin Admin) (string, error) {
	id, err := s.identities.CreateIdentity(ctx, admin.Email, admin.Password, admin.Name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, identity.ErrAlreadyExists) {
		return "", fmt.Errorf("seed admin identity: %w", err)
	}

	id, err = s.identities.Authenticate(ctx, admin.Email, admin.Password)
	if err != nil {
		return "", fmt.Errorf("seed admin identity exists with a different password: %w", err)
	}
	return id, nil
}
