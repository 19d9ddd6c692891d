package editor

import (
	"context"
	"strings"

	"humanaid/internal/utils"
	"humanaid/pkg/types"

	"github.com/sirupsen/logrus"
)

type Store interface {
	ResourceForAdmin(ctx context.Context, id int64) (*types.ResourceListing, error)
	UpdateResource(ctx context.Context, id int64, fields map[string]any) error
}

// Editor applies admin edits to published resources. Tags and the primary
// category normalization are left alone; only the pipeline derives those.
type Editor struct {
	logger *logrus.Logger
	store  Store
}

func New(logger *logrus.Logger, store Store) *Editor {
	return &Editor{logger: logger, store: store}
}

func (e *Editor) Update(ctx context.Context, id int64, patch types.ResourcePatch) (*types.ResourceListing, error) {
	current, err := e.store.ResourceForAdmin(ctx, id)
	if err != nil {
		return nil, err
	}

	fields, err := Fields(&current.Resource, patch)
	if err != nil {
		return nil, err
	}

	err = e.store.UpdateResource(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"resource_id": id,
		"fields":      len(fields),
	}).Info("resource updated")

	return e.store.ResourceForAdmin(ctx, id)
}

// Fields turns a patch into the column map to write. The slug is always
// rebuilt from the final name with the id as a stable suffix.
func Fields(current *types.Resource, patch types.ResourcePatch) (map[string]any, error) {
	fields := make(map[string]any)
	verr := &types.ValidationError{Fields: map[string]string{}}

	required := func(column string, f types.Field[string], transform func(string) string) {
		if !f.Set {
			return
		}
		v := strings.TrimSpace(utils.PtrString(f.Value))
		if v == "" {
			verr.Fields[column] = "cannot be empty"
			return
		}
		if transform != nil {
			v = transform(v)
		}
		fields[column] = v
	}

	optional := func(column string, f types.Field[string]) {
		if f.Set {
			fields[column] = utils.StringPtrOrNil(strings.TrimSpace(utils.PtrString(f.Value)))
		}
	}

	optionalBool := func(column string, f types.Field[bool]) {
		if f.Set {
			fields[column] = f.Value
		}
	}

	required("name", patch.Name, nil)
	required("address", patch.Address, nil)
	required("city", patch.City, nil)
	required("state", patch.State, strings.ToUpper)

	optional("description", patch.Description)
	optional("zip_code", patch.ZipCode)
	optional("phone", patch.Phone)
	optional("website", patch.Website)
	optional("email", patch.Email)
	optional("hours", patch.Hours)
	optional("eligibility_requirements", patch.EligibilityRequirements)
	optional("service_area", patch.ServiceArea)

	optionalBool("appointment_required", patch.AppointmentRequired)
	optionalBool("walk_ins_accepted", patch.WalkInsAccepted)
	optionalBool("food_dist_onsite", patch.FoodDistOnsite)

	if patch.IsActive.Set {
		if patch.IsActive.Value == nil {
			verr.Fields["is_active"] = "must be true or false"
		} else {
			fields["is_active"] = *patch.IsActive.Value
		}
	}

	if patch.PrimaryCategoryID.Set {
		fields["primary_category_id"] = patch.PrimaryCategoryID.Value
	}

	// Anything outside the enum, the empty string included, is stored as null.
	if patch.FoodDistType.Set {
		var v *string
		if patch.FoodDistType.Value != nil {
			v = utils.StringPtr(strings.TrimSpace(*patch.FoodDistType.Value))
		}
		fields["food_dist_type"] = types.NormalizeFoodDistType(v)
	}

	if patch.LanguagesSpoken.Set {
		fields["languages_spoken"] = utils.SplitList(utils.PtrString(patch.LanguagesSpoken.Value))
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}

	name := current.Name
	if v, ok := fields["name"].(string); ok {
		name = v
	}
	fields["slug"] = utils.SlugWithSuffix(name, utils.Base36(current.ID))

	return fields, nil
}
