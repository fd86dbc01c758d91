package employees

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/garagehub/garagehub-backend/internal/credentials"
	"github.com/garagehub/garagehub-backend/pkg/db/models"
	"github.com/garagehub/garagehub-backend/pkg/enums"
	pkgerrors "github.com/garagehub/garagehub-backend/pkg/errors"
)

type fakeIdentityStore struct {
	owner        *models.Employee
	existing     *models.Employee
	createErr    error
	created      []*models.Employee
	lookupHandle string
	lookupEmail  string
}

func (f *fakeIdentityStore) FindByID(_ context.Context, id uuid.UUID) (*models.Employee, error) {
	if f.owner == nil || f.owner.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.owner, nil
}

func (f *fakeIdentityStore) FindByHandleOrEmail(_ context.Context, handle, email string) (*models.Employee, error) {
	f.lookupHandle = handle
	f.lookupEmail = email
	if f.existing != nil {
		return f.existing, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeIdentityStore) Create(_ context.Context, dto CreateEmployeeDTO) (*models.Employee, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	employee := dto.ToModel()
	employee.ID = uuid.New()
	f.created = append(f.created, employee)
	return employee, nil
}

type fakeCredentialStore struct {
	createErr error
	created   []*models.UserCredential
}

func (f *fakeCredentialStore) Create(_ context.Context, dto credentials.CreateCredentialDTO) (*models.UserCredential, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	credential := dto.ToModel()
	credential.ID = uuid.New()
	f.created = append(f.created, credential)
	return credential, nil
}

type fakeRemover struct {
	removeErr error
	removed   []uuid.UUID
}

func (f *fakeRemover) RemoveIdentity(_ context.Context, id uuid.UUID) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, id)
	return nil
}

type fakeUsageRecorder struct {
	records []string
}

func (f *fakeUsageRecorder) Record(_ context.Context, _ uuid.UUID, field, value string) error {
	f.records = append(f.records, field+"="+value)
	return nil
}

func testOwner() *models.Employee {
	return &models.Employee{
		ID:         uuid.New(),
		GarageID:   uuid.New(),
		GarageName: "Riverside Garage",
		Handle:     "owner.riverside@riversidegarage",
		Role:       enums.EmployeeRoleOwner,
	}
}

func validInput(ownerID uuid.UUID) ProvisionInput {
	return ProvisionInput{
		OwnerID:   ownerID,
		FirstName: "José",
		LastName:  "Álvaro",
		Role:      enums.EmployeeRoleMechanic,
		Email:     "jose.alvaro@example.com",
		Phone:     "+1 (555) 010-2030",
	}
}

func newTestProvisioner(t *testing.T, store *fakeIdentityStore, creds *fakeCredentialStore, remover *fakeRemover, usage UsageRecorder) Provisioner {
	t.Helper()
	prov, err := NewProvisioner(ProvisionerParams{
		Employees:   store,
		Credentials: creds,
		Remover:     remover,
		Usage:       usage,
	})
	if err != nil {
		t.Fatalf("NewProvisioner: %v", err)
	}
	return prov
}

func TestProvisionCreatesIdentityAndCredential(t *testing.T) {
	owner := testOwner()
	store := &fakeIdentityStore{owner: owner}
	creds := &fakeCredentialStore{}
	usage := &fakeUsageRecorder{}
	prov := newTestProvisioner(t, store, creds, &fakeRemover{}, usage)

	summary, err := prov.Provision(context.Background(), validInput(owner.ID))
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}

	if summary.Handle != "jose.alvaro@riversidegarage" {
		t.Errorf("handle = %q, want jose.alvaro@riversidegarage", summary.Handle)
	}
	if len(store.created) != 1 {
		t.Fatalf("employees created = %d, want 1", len(store.created))
	}
	if len(creds.created) != 1 {
		t.Fatalf("credentials created = %d, want 1", len(creds.created))
	}

	employee := store.created[0]
	credential := creds.created[0]
	if summary.EmployeeID != employee.ID {
		t.Errorf("summary id = %s, want %s", summary.EmployeeID, employee.ID)
	}
	if credential.EmployeeID != employee.ID {
		t.Errorf("credential employee_id = %s, want %s", credential.EmployeeID, employee.ID)
	}
	if credential.Handle != employee.Handle {
		t.Errorf("credential handle = %q, employee handle = %q", credential.Handle, employee.Handle)
	}
	if credential.PasswordHash != nil {
		t.Errorf("password hash should start out nil, got %q", *credential.PasswordHash)
	}
	if employee.GarageID != owner.GarageID {
		t.Errorf("garage_id = %s, want owner's %s", employee.GarageID, owner.GarageID)
	}
	if len(usage.records) != 1 || usage.records[0] != "role=mechanic" {
		t.Errorf("usage records = %v, want [role=mechanic]", usage.records)
	}
}

func TestProvisionRollsBackIdentityOnCredentialFailure(t *testing.T) {
	owner := testOwner()
	store := &fakeIdentityStore{owner: owner}
	creds := &fakeCredentialStore{createErr: errors.New("connection reset")}
	remover := &fakeRemover{}
	prov := newTestProvisioner(t, store, creds, remover, nil)

	_, err := prov.Provision(context.Background(), validInput(owner.ID))
	if err == nil {
		t.Fatal("expected error")
	}

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("code = %v, want %s", err, pkgerrors.CodeDependency)
	}
	if len(store.created) != 1 {
		t.Fatalf("employees created = %d, want 1", len(store.created))
	}
	if len(remover.removed) != 1 || remover.removed[0] != store.created[0].ID {
		t.Errorf("removed = %v, want the created employee %s", remover.removed, store.created[0].ID)
	}
	if typed.CorrelationID() == "" {
		t.Error("dependency error should carry a correlation id")
	}
}

func TestProvisionEscalatesWhenRollbackFails(t *testing.T) {
	owner := testOwner()
	store := &fakeIdentityStore{owner: owner}
	creds := &fakeCredentialStore{createErr: errors.New("insert timeout")}
	remover := &fakeRemover{removeErr: errors.New("delete refused")}
	prov := newTestProvisioner(t, store, creds, remover, nil)

	_, err := prov.Provision(context.Background(), validInput(owner.ID))
	if err == nil {
		t.Fatal("expected error")
	}

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeCompensation {
		t.Fatalf("code = %v, want %s", err, pkgerrors.CodeCompensation)
	}
	if typed.CorrelationID() == "" {
		t.Error("compensation failure must carry a correlation id")
	}
	// Both causes must survive for the operator.
	for _, fragment := range []string{"insert timeout", "delete refused"} {
		if cause := typed.Unwrap(); cause == nil || !strings.Contains(cause.Error(), fragment) {
			t.Errorf("cause %v should mention %q", typed.Unwrap(), fragment)
		}
	}
}

func TestProvisionRejectsDuplicateHandle(t *testing.T) {
	owner := testOwner()
	existing := &models.Employee{
		ID:     uuid.New(),
		Handle: "jose.alvaro@riversidegarage",
		Email:  "other@example.com",
	}
	store := &fakeIdentityStore{owner: owner, existing: existing}
	creds := &fakeCredentialStore{}
	prov := newTestProvisioner(t, store, creds, &fakeRemover{}, nil)

	_, err := prov.Provision(context.Background(), validInput(owner.ID))

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("code = %v, want %s", err, pkgerrors.CodeConflict)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["field"] != "handle" {
		t.Errorf("details = %v, want field=handle", typed.Details())
	}
	if len(store.created) != 0 || len(creds.created) != 0 {
		t.Error("conflict must not create any records")
	}
}

func TestProvisionRejectsDuplicateEmail(t *testing.T) {
	owner := testOwner()
	existing := &models.Employee{
		ID:     uuid.New(),
		Handle: "someone.else@riversidegarage",
		Email:  "jose.alvaro@example.com",
	}
	store := &fakeIdentityStore{owner: owner, existing: existing}
	prov := newTestProvisioner(t, store, &fakeCredentialStore{}, &fakeRemover{}, nil)

	_, err := prov.Provision(context.Background(), validInput(owner.ID))

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("code = %v, want %s", err, pkgerrors.CodeConflict)
	}
	details, _ := typed.Details().(map[string]string)
	if details["field"] != "email" {
		t.Errorf("details = %v, want field=email", typed.Details())
	}
}

func TestProvisionUnknownOwner(t *testing.T) {
	store := &fakeIdentityStore{}
	prov := newTestProvisioner(t, store, &fakeCredentialStore{}, &fakeRemover{}, nil)

	_, err := prov.Provision(context.Background(), validInput(uuid.New()))

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("code = %v, want %s", err, pkgerrors.CodeNotFound)
	}
}

func TestProvisionValidation(t *testing.T) {
	owner := testOwner()

	cases := []struct {
		name   string
		mutate func(*ProvisionInput)
		field  string
	}{
		{"missing first name", func(in *ProvisionInput) { in.FirstName = "  " }, "first_name"},
		{"missing last name", func(in *ProvisionInput) { in.LastName = "" }, "last_name"},
		{"unknown role", func(in *ProvisionInput) { in.Role = "janitor" }, "role"},
		{"missing email", func(in *ProvisionInput) { in.Email = "" }, "email"},
		{"email consecutive dots", func(in *ProvisionInput) { in.Email = "a..b@example.com" }, "email"},
		{"email leading dot", func(in *ProvisionInput) { in.Email = ".ab@example.com" }, "email"},
		{"email trailing dot in local", func(in *ProvisionInput) { in.Email = "ab.@example.com" }, "email"},
		{"email without domain", func(in *ProvisionInput) { in.Email = "ab@" }, "email"},
		{"phone too short", func(in *ProvisionInput) { in.Phone = "555-0102" }, "phone"},
		{"phone too long", func(in *ProvisionInput) { in.Phone = "1234567890123456" }, "phone"},
		{"phone with letters", func(in *ProvisionInput) { in.Phone = "555-CALL-NOW1" }, "phone"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeIdentityStore{owner: owner}
			prov := newTestProvisioner(t, store, &fakeCredentialStore{}, &fakeRemover{}, nil)

			input := validInput(owner.ID)
			tc.mutate(&input)

			_, err := prov.Provision(context.Background(), input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("code = %v, want %s", err, pkgerrors.CodeValidation)
			}
			fields, ok := typed.Details().(map[string]string)
			if !ok {
				t.Fatalf("details = %v, want field map", typed.Details())
			}
			if _, found := fields[tc.field]; !found {
				t.Errorf("details %v should flag %q", fields, tc.field)
			}
			if len(store.created) != 0 {
				t.Error("validation failure must not create records")
			}
		})
	}
}

func TestProvisionAcceptsFormattedPhone(t *testing.T) {
	owner := testOwner()
	store := &fakeIdentityStore{owner: owner}
	prov := newTestProvisioner(t, store, &fakeCredentialStore{}, &fakeRemover{}, nil)

	input := validInput(owner.ID)
	input.Phone = "+44 20 7946 0958"

	if _, err := prov.Provision(context.Background(), input); err != nil {
		t.Fatalf("Provision: %v", err)
	}
}
