package view

import "github.com/dspetrov/trackdesk/internal/model"

// CanEditProject reports whether the profile may edit the project's
// settings: admins, the owner, and manager-role members qualify. This
// is advisory UI gating only; authorization is enforced by the
// backend's own access rules.
func CanEditProject(profile *model.Profile, project *model.Project) bool {
	if profile == nil || project == nil {
		return false
	}
	if profile.Role == model.RoleAdmin {
		return true
	}
	if project.OwnerID == profile.ID {
		return true
	}
	for _, m := range project.Members {
		if m.UserID == profile.ID && m.Role == model.MemberManager {
			return true
		}
	}
	return false
}
