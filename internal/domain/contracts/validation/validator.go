// Package validation holds the per-command precondition checks that run
// before any contract is mutated.
//
// Field-level problems are collected and reported together as one
// CodeValidation error. Lookups against the store run only once the command
// is well-formed: a missing contract is CodeNotFound and an occupied office
// is CodeConflict.
package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/workstation-backend/internal/domain/aggregates"
	"github.com/yungbote/workstation-backend/internal/domain/contracts"
)

type Validator struct {
	contracts contracts.Reader
	roles     contracts.RoleDirectory
	validate  *validator.Validate
	now       func() time.Time
}

// New builds a validator. roles may be nil, in which case counterparty role
// checks are skipped. now defaults to time.Now.
func New(reader contracts.Reader, roles contracts.RoleDirectory, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Validator{contracts: reader, roles: roles, validate: v, now: now}
}

var hundred = decimal.NewFromInt(100)

// moneyPlaces matches the decimal(18,2) and decimal(5,2) columns.
const moneyPlaces = 2

const scaleMessage = "must have at most 2 decimal places"

func fitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(moneyPlaces))
}

func (v *Validator) CreateContract(ctx context.Context, cmd contracts.CreateContractCommand) error {
	const op = "Validate.CreateContract"
	cmd.Description = strings.TrimSpace(cmd.Description)

	fields := v.structFields(cmd)
	if cmd.RenterID != uuid.Nil && cmd.RenterID == cmd.OwnerID {
		fields = append(fields, field("renter_id", "must differ from owner_id"))
	}
	if !cmd.StartDate.IsZero() {
		today := v.now().UTC().Truncate(24 * time.Hour)
		if cmd.StartDate.UTC().Before(today) {
			fields = append(fields, field("start_date", "must not be in the past"))
		}
		if !cmd.EndDate.IsZero() && !cmd.EndDate.After(cmd.StartDate) {
			fields = append(fields, field("end_date", "must be after start_date"))
		}
	}
	if !cmd.BaseAmount.IsPositive() {
		fields = append(fields, field("base_amount", "must be greater than 0"))
	} else if !fitsScale(cmd.BaseAmount) {
		fields = append(fields, field("base_amount", scaleMessage))
	}
	if cmd.LateFee.IsNegative() {
		fields = append(fields, field("late_fee", "must not be negative"))
	} else if !fitsScale(cmd.LateFee) {
		fields = append(fields, field("late_fee", scaleMessage))
	}
	if cmd.InterestRate.IsNegative() || cmd.InterestRate.GreaterThan(hundred) {
		fields = append(fields, field("interest_rate", "must be between 0 and 100"))
	} else if !fitsScale(cmd.InterestRate) {
		fields = append(fields, field("interest_rate", scaleMessage))
	}

	roleFields, err := v.counterpartyRoles(ctx, op, cmd.OwnerID, cmd.RenterID)
	if err != nil {
		return err
	}
	fields = append(fields, roleFields...)
	if len(fields) > 0 {
		return aggregates.ValidationFailed(op, fields)
	}

	active, err := v.contracts.GetActiveByOffice(ctx, cmd.OfficeID)
	if err != nil {
		return err
	}
	if active != nil {
		return aggregates.NewError(aggregates.CodeConflict, op,
			fmt.Sprintf("office %s already has active contract %s", cmd.OfficeID, active.ID()), nil)
	}
	return nil
}

func (v *Validator) AddClause(ctx context.Context, cmd contracts.AddClauseCommand) error {
	const op = "Validate.AddClause"
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Content = strings.TrimSpace(cmd.Content)
	if fields := v.structFields(cmd); len(fields) > 0 {
		return aggregates.ValidationFailed(op, fields)
	}
	_, err := v.existing(ctx, cmd.ContractID)
	return err
}

func (v *Validator) AddCompensation(ctx context.Context, cmd contracts.AddCompensationCommand) error {
	const op = "Validate.AddCompensation"
	cmd.Reason = strings.TrimSpace(cmd.Reason)
	fields := v.structFields(cmd)
	if cmd.IssuerID != uuid.Nil && cmd.IssuerID == cmd.ReceiverID {
		fields = append(fields, field("receiver_id", "must differ from issuer_id"))
	}
	if !cmd.Amount.IsPositive() {
		fields = append(fields, field("amount", "must be greater than 0"))
	} else if !fitsScale(cmd.Amount) {
		fields = append(fields, field("amount", scaleMessage))
	}
	if len(fields) > 0 {
		return aggregates.ValidationFailed(op, fields)
	}
	_, err := v.existing(ctx, cmd.ContractID)
	return err
}

func (v *Validator) ActivateContract(ctx context.Context, cmd contracts.ActivateContractCommand) error {
	if fields := v.structFields(cmd); len(fields) > 0 {
		return aggregates.ValidationFailed("Validate.ActivateContract", fields)
	}
	_, err := v.existing(ctx, cmd.ContractID)
	return err
}

func (v *Validator) SignContract(ctx context.Context, cmd contracts.SignContractCommand) error {
	const op = "Validate.SignContract"
	cmd.SignatureHash = strings.TrimSpace(cmd.SignatureHash)
	if fields := v.structFields(cmd); len(fields) > 0 {
		return aggregates.ValidationFailed(op, fields)
	}
	c, err := v.existing(ctx, cmd.ContractID)
	if err != nil {
		return err
	}
	var fields []aggregates.FieldError
	if !c.IsParty(cmd.SignerID) {
		fields = append(fields, field("signer_id", "must be the contract owner or renter"))
	} else if c.HasSigned(cmd.SignerID) {
		fields = append(fields, field("signer_id", "has already signed this contract"))
	}
	if s := c.Status(); s != contracts.StatusDraft && s != contracts.StatusPendingSignatures {
		fields = append(fields, field("contract_id", fmt.Sprintf("contract is %s and can no longer be signed", s)))
	}
	if len(fields) > 0 {
		return aggregates.ValidationFailed(op, fields)
	}
	return nil
}

func (v *Validator) UpdateReceipt(ctx context.Context, cmd contracts.UpdateReceiptCommand) error {
	const op = "Validate.UpdateReceipt"
	cmd.Notes = strings.TrimSpace(cmd.Notes)
	fields := v.structFields(cmd)
	if !fitsScale(cmd.CompensationAdjustments) {
		fields = append(fields, field("compensation_adjustments", scaleMessage))
	}
	if len(fields) > 0 {
		return aggregates.ValidationFailed(op, fields)
	}
	c, err := v.existing(ctx, cmd.ContractID)
	if err != nil {
		return err
	}
	if _, ok := c.Receipt(); !ok {
		return aggregates.NewError(aggregates.CodeNotFound, op, "contract has no receipt: "+cmd.ContractID.String(), nil)
	}
	return nil
}

func (v *Validator) FinishContract(ctx context.Context, cmd contracts.FinishContractCommand) error {
	cmd.Reason = strings.TrimSpace(cmd.Reason)
	if fields := v.structFields(cmd); len(fields) > 0 {
		return aggregates.ValidationFailed("Validate.FinishContract", fields)
	}
	_, err := v.existing(ctx, cmd.ContractID)
	return err
}

func (v *Validator) CancelContract(ctx context.Context, cmd contracts.CancelContractCommand) error {
	cmd.Reason = strings.TrimSpace(cmd.Reason)
	if fields := v.structFields(cmd); len(fields) > 0 {
		return aggregates.ValidationFailed("Validate.CancelContract", fields)
	}
	_, err := v.existing(ctx, cmd.ContractID)
	return err
}

func (v *Validator) ResolveCompensation(ctx context.Context, cmd contracts.ResolveCompensationCommand) error {
	cmd.Decision = contracts.Decision(strings.ToLower(strings.TrimSpace(string(cmd.Decision))))
	if fields := v.structFields(cmd); len(fields) > 0 {
		return aggregates.ValidationFailed("Validate.ResolveCompensation", fields)
	}
	_, err := v.existing(ctx, cmd.ContractID)
	return err
}

func (v *Validator) IssueReceipt(ctx context.Context, cmd contracts.IssueReceiptCommand) error {
	const op = "Validate.IssueReceipt"
	cmd.ReceiptNumber = strings.TrimSpace(cmd.ReceiptNumber)
	fields := v.structFields(cmd)
	if !cmd.BaseAmount.IsPositive() {
		fields = append(fields, field("base_amount", "must be greater than 0"))
	} else if !fitsScale(cmd.BaseAmount) {
		fields = append(fields, field("base_amount", scaleMessage))
	}
	if len(fields) > 0 {
		return aggregates.ValidationFailed(op, fields)
	}
	c, err := v.existing(ctx, cmd.ContractID)
	if err != nil {
		return err
	}
	if r, ok := c.Receipt(); ok {
		return aggregates.NewError(aggregates.CodeConflict, op, "contract already has receipt "+r.ReceiptNumber, nil)
	}
	return nil
}

func (v *Validator) existing(ctx context.Context, id uuid.UUID) (*contracts.Contract, error) {
	c, err := v.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, aggregates.NewError(aggregates.CodeNotFound, "Validate.ContractExists", "contract not found: "+id.String(), nil)
	}
	return c, nil
}

func (v *Validator) counterpartyRoles(ctx context.Context, op string, ownerID, renterID uuid.UUID) ([]aggregates.FieldError, error) {
	if v.roles == nil {
		return nil, nil
	}
	var fields []aggregates.FieldError
	check := func(name string, id uuid.UUID, want contracts.Role) error {
		if id == uuid.Nil {
			return nil
		}
		got, err := v.roles.RoleOf(ctx, id)
		if err != nil {
			return aggregates.Wrap(aggregates.CodeInternal, op, err)
		}
		if got != want {
			fields = append(fields, field(name, fmt.Sprintf("must hold the %s role", want)))
		}
		return nil
	}
	if err := check("owner_id", ownerID, contracts.RoleLessor); err != nil {
		return nil, err
	}
	if err := check("renter_id", renterID, contracts.RoleSeeker); err != nil {
		return nil, err
	}
	return fields, nil
}

func (v *Validator) structFields(cmd any) []aggregates.FieldError {
	err := v.validate.Struct(cmd)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []aggregates.FieldError{field("", err.Error())}
	}
	out := make([]aggregates.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, field(fe.Field(), message(fe)))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}

func field(name, msg string) aggregates.FieldError {
	return aggregates.FieldError{Field: name, Message: msg}
}
