package employees

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/garagehub/garagehub-backend/internal/credentials"
	"github.com/garagehub/garagehub-backend/internal/slug"
	"github.com/garagehub/garagehub-backend/pkg/db"
	"github.com/garagehub/garagehub-backend/pkg/db/models"
	pkgerrors "github.com/garagehub/garagehub-backend/pkg/errors"
	"github.com/garagehub/garagehub-backend/pkg/logger"
	"github.com/garagehub/garagehub-backend/pkg/metrics"
)

// Provisioner creates a staff identity together with its paired credential.
// The backend has no multi-statement transactions, so the two inserts are an
// explicit saga: identity first, credential second, and a compensating delete
// of the identity if the credential insert fails.
type Provisioner interface {
	Provision(ctx context.Context, input ProvisionInput) (*ProvisionSummary, error)
}

// IdentityStore is the surface the provisioner needs from the employees repo.
type IdentityStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	FindByHandleOrEmail(ctx context.Context, handle, email string) (*models.Employee, error)
	Create(ctx context.Context, dto CreateEmployeeDTO) (*models.Employee, error)
}

// CredentialStore is the surface the provisioner needs from the credentials repo.
type CredentialStore interface {
	Create(ctx context.Context, dto credentials.CreateCredentialDTO) (*models.UserCredential, error)
}

// IdentityRemover undoes a committed identity insert. The default
// implementation runs on the privileged connection because the partial row
// belongs to no authenticated actor yet.
type IdentityRemover interface {
	RemoveIdentity(ctx context.Context, id uuid.UUID) error
}

// UsageRecorder is the optional hook for form-ranking counters.
type UsageRecorder interface {
	Record(ctx context.Context, garageID uuid.UUID, field, value string) error
}

// ProvisionerParams packages the dependencies for the provisioning saga.
type ProvisionerParams struct {
	Privileged  db.Privileged
	Employees   IdentityStore
	Credentials CredentialStore
	Remover     IdentityRemover // defaults to a privileged remover
	Usage       UsageRecorder   // optional, best-effort
	Metrics     *metrics.CoordinatorMetrics
	Logger      *logger.Logger
}

type provisioner struct {
	employees   IdentityStore
	credentials CredentialStore
	remover     IdentityRemover
	usage       UsageRecorder
	metrics     *metrics.CoordinatorMetrics
	logg        *logger.Logger
}

// NewProvisioner wires the saga. The privileged capability must be handed in
// explicitly; nothing here can reach for a global admin client.
func NewProvisioner(params ProvisionerParams) (Provisioner, error) {
	if params.Employees == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "employee store required")
	}
	if params.Credentials == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "credential store required")
	}
	remover := params.Remover
	if remover == nil {
		if !params.Privileged.Valid() {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "privileged capability required")
		}
		remover = privilegedRemover{priv: params.Privileged}
	}
	return &provisioner{
		employees:   params.Employees,
		credentials: params.Credentials,
		remover:     remover,
		usage:       params.Usage,
		metrics:     params.Metrics,
		logg:        params.Logger,
	}, nil
}

func (p *provisioner) Provision(ctx context.Context, input ProvisionInput) (*ProvisionSummary, error) {
	if err := validateProvisionInput(input); err != nil {
		p.metrics.IncProvision("validation")
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Step 1: tenant metadata is inherited from the owner identity.
	owner, err := p.employees.FindByID(ctx, input.OwnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			p.metrics.IncProvision("not_found")
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "garage owner not found")
		}
		p.metrics.IncProvision("failure")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve garage owner")
	}

	// Step 2: canonical handle.
	handle, err := slug.Generate(input.FirstName, input.LastName, owner.GarageName)
	if err != nil {
		p.metrics.IncProvision("validation")
		if errors.Is(err, slug.ErrEmptySegment) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "name yields no usable handle")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "generate handle")
	}

	// Step 3: pre-flight uniqueness. No suffix disambiguation on collision;
	// the caller must pick a different name or email.
	if existing, err := p.employees.FindByHandleOrEmail(ctx, handle, email); err == nil {
		field := "email"
		if existing.Handle == handle {
			field = "handle"
		}
		p.metrics.IncProvision("conflict")
		return nil, pkgerrors.New(pkgerrors.CodeConflict, field+" already in use").
			WithDetails(map[string]string{"field": field})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		p.metrics.IncProvision("failure")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check handle uniqueness")
	}

	// Step 4: insert the identity. Must be durable before the credential is
	// attempted.
	employee, err := p.employees.Create(ctx, CreateEmployeeDTO{
		GarageID:   owner.GarageID,
		GarageName: owner.GarageName,
		Handle:     handle,
		FirstName:  strings.TrimSpace(input.FirstName),
		LastName:   strings.TrimSpace(input.LastName),
		Role:       input.Role,
		Email:      email,
		Phone:      strings.TrimSpace(input.Phone),
	})
	if err != nil {
		p.metrics.IncProvision("failure")
		if db.IsUniqueViolation(err, "") {
			// Lost the race between pre-flight check and insert.
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "handle or email already in use").
				WithDetails(map[string]string{"field": "handle"})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create employee")
	}

	// Step 5: insert the paired credential, password hash deliberately NULL.
	if _, err := p.credentials.Create(ctx, credentials.CreateCredentialDTO{
		EmployeeID: employee.ID,
		Handle:     handle,
		Role:       input.Role,
	}); err != nil {
		return nil, p.compensate(ctx, employee.ID, err)
	}

	if p.usage != nil {
		if err := p.usage.Record(ctx, owner.GarageID, "role", input.Role.String()); err != nil && p.logg != nil {
			p.logg.Warn(p.logg.WithField(ctx, "error", err.Error()), "record role usage")
		}
	}

	p.metrics.IncProvision("success")
	return &ProvisionSummary{EmployeeID: employee.ID, Handle: handle}, nil
}

// compensate deletes the identity committed in step 4 after the credential
// insert failed. A timeout on the credential insert counts as failed here:
// the outcome is unknown, so the rollback is attempted and its own failure is
// escalated rather than silently retried.
func (p *provisioner) compensate(ctx context.Context, employeeID uuid.UUID, cause error) error {
	if removeErr := p.remover.RemoveIdentity(ctx, employeeID); removeErr != nil {
		p.metrics.IncProvision("failure")
		p.metrics.IncCompensationFailure()
		err := pkgerrors.Wrap(
			pkgerrors.CodeCompensation,
			multierr.Append(cause, removeErr),
			"orphaned identity: credential insert and rollback both failed",
		).WithCorrelationID("")
		if p.logg != nil {
			lctx := p.logg.WithFields(ctx, map[string]any{
				"employee_id":    employeeID.String(),
				"correlation_id": pkgerrors.As(err).CorrelationID(),
			})
			p.logg.Error(lctx, "CRITICAL: orphaned identity requires manual remediation", err)
		}
		return err
	}

	p.metrics.IncProvision("failure")
	return pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "create credential").WithCorrelationID("")
}

type privilegedRemover struct {
	priv db.Privileged
}

func (r privilegedRemover) RemoveIdentity(ctx context.Context, id uuid.UUID) error {
	return r.priv.DB().WithContext(ctx).Delete(&models.Employee{}, "id = ?", id).Error
}

var (
	phoneStripper = regexp.MustCompile(`[\s\-().+]`)
	digitsOnly    = regexp.MustCompile(`^[0-9]+$`)
	emailShape    = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
)

func validateProvisionInput(input ProvisionInput) error {
	fields := map[string]string{}

	if input.OwnerID == uuid.Nil {
		fields["owner_id"] = "is required"
	}
	if strings.TrimSpace(input.FirstName) == "" {
		fields["first_name"] = "is required"
	}
	if strings.TrimSpace(input.LastName) == "" {
		fields["last_name"] = "is required"
	}
	if !input.Role.IsValid() {
		fields["role"] = "is not a recognized role"
	}
	if message, ok := checkEmail(input.Email); !ok {
		fields["email"] = message
	}
	if message, ok := checkPhone(input.Phone); !ok {
		fields["phone"] = message
	}

	if len(fields) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(fields)
	}
	return nil
}

// checkEmail enforces a stricter shape than the usual regex: dots may not
// lead, trail, or repeat in the local part or the domain.
func checkEmail(email string) (string, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "is required", false
	}
	if !emailShape.MatchString(email) {
		return "must be a valid email", false
	}
	local, domain, _ := strings.Cut(email, "@")
	for _, segment := range []string{local, domain} {
		if strings.HasPrefix(segment, ".") || strings.HasSuffix(segment, ".") || strings.Contains(segment, "..") {
			return "must not contain leading, trailing or consecutive dots", false
		}
	}
	return "", true
}

// checkPhone accepts 10 to 15 digits after stripping common formatting.
func checkPhone(phone string) (string, bool) {
	stripped := phoneStripper.ReplaceAllString(strings.TrimSpace(phone), "")
	if stripped == "" {
		return "is required", false
	}
	if !digitsOnly.MatchString(stripped) {
		return "must contain only digits and formatting characters", false
	}
	if len(stripped) < 10 || len(stripped) > 15 {
		return "must have between 10 and 15 digits", false
	}
	return "", true
}
