package auth

import (
	"workplace-access-backend/internal/apperror"
	"workplace-access-backend/internal/model"
)

// ProfileUpdate is the fixed allow-list of fields a non-admin may change
// on their own record. Identity, credentials and role fields are never
// settable through this path regardless of claims.
type ProfileUpdate struct {
	FirstName         *string `json:"firstName"`
	LastName          *string `json:"lastName"`
	Phone             *string `json:"phone"`
	LaptopModel       *string `json:"laptopModel"`
	LaptopAssetNumber *string `json:"laptopAssetNumber"`
	PhotoURL          *string `json:"photoUrl"`
}

// ApplyProfileUpdate checks the caller may modify the target user and
// copies the set fields onto it.
func ApplyProfileUpdate(c Claims, u *model.User, upd ProfileUpdate) error {
	if !c.CanModify(u.ID) {
		return apperror.Forbidden("not allowed to modify this profile")
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.LaptopModel != nil {
		u.LaptopModel = *upd.LaptopModel
	}
	if upd.LaptopAssetNumber != nil {
		u.LaptopAssetNumber = *upd.LaptopAssetNumber
	}
	if upd.PhotoURL != nil {
		u.PhotoURL = *upd.PhotoURL
	}
	return nil
}
