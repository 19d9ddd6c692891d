package moderation

import (
	"strings"

	"humanaid/internal/utils"
	"humanaid/pkg/types"
)

func trimInput(in *types.SubmissionInput) {
	for _, s := range []*string{
		&in.Name, &in.Description, &in.Address, &in.City, &in.State, &in.ZipCode,
		&in.Phone, &in.Website, &in.Email, &in.Hours, &in.FoodDistType,
		&in.EligibilityRequirements, &in.ServiceArea, &in.Notes,
		&in.SubmittedBy, &in.SubmittedByName, &in.SubmittedByUID,
	} {
		*s = strings.TrimSpace(*s)
	}
	in.State = strings.ToUpper(in.State)
}

func trimList(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func submissionFromInput(in types.SubmissionInput) *types.Submission {
	categoryID := in.CategoryID

	return &types.Submission{
		Name:        in.Name,
		Description: utils.StringPtrOrNil(in.Description),
		Address:     in.Address,
		City:        in.City,
		State:       in.State,
		ZipCode:     in.ZipCode,
		Phone:       utils.StringPtrOrNil(in.Phone),
		Website:     utils.StringPtrOrNil(in.Website),
		Email:       utils.StringPtrOrNil(in.Email),
		Hours:       utils.StringPtrOrNil(in.Hours),

		PrimaryCategoryID: &categoryID,
		Tags:              trimList(in.Tags),
		FoodDistOnsite:    in.FoodDistOnsite,
		FoodDistType:      types.NormalizeFoodDistType(utils.StringPtrOrNil(in.FoodDistType)),

		EligibilityRequirements: utils.StringPtrOrNil(in.EligibilityRequirements),
		AppointmentRequired:     in.AppointmentRequired,
		WalkInsAccepted:         in.WalkInsAccepted,
		ServiceArea:             utils.StringPtrOrNil(in.ServiceArea),
		LanguagesSpoken:         trimList(in.LanguagesSpoken),
		Notes:                   utils.StringPtrOrNil(in.Notes),

		SubmittedBy:     utils.StringPtrOrNil(in.SubmittedBy),
		SubmittedByName: utils.StringPtrOrNil(in.SubmittedByName),
		SubmittedByUID:  utils.StringPtrOrNil(in.SubmittedByUID),
	}
}

func resourceFromSubmission(sub *types.Submission) *types.Resource {
	return &types.Resource{
		Name:           sub.Name,
		Description:    sub.Description,
		Address:        sub.Address,
		City:           sub.City,
		State:          sub.State,
		ZipCode:        utils.StringPtrOrNil(sub.ZipCode),
		Phone:          sub.Phone,
		Website:        sub.Website,
		Email:          sub.Email,
		Hours:          sub.Hours,
		IsActive:       true,
		ApprovalStatus: types.ApprovalStatusApproved,

		PrimaryCategoryID: sub.PrimaryCategoryID,
		FoodDistOnsite:    sub.FoodDistOnsite,
		FoodDistType:      types.NormalizeFoodDistType(sub.FoodDistType),

		EligibilityRequirements: sub.EligibilityRequirements,
		AppointmentRequired:     sub.AppointmentRequired,
		WalkInsAccepted:         sub.WalkInsAccepted,
		ServiceArea:             sub.ServiceArea,
		LanguagesSpoken:         sub.LanguagesSpoken,
	}
}
