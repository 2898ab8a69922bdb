// Package authz maps roles to the course actions they may perform.
package authz

import (
	"learnhub-backend/src/constants"
	"learnhub-backend/src/utils"
)

type Action string

const (
	CreateCourse      Action = "course:create"
	UpdateAnyCourse   Action = "course:update:any"
	DeleteAnyCourse   Action = "course:delete:any"
	PublishAnyCourse  Action = "course:publish:any"
	ViewMentorCourses Action = "course:mentor:list"
	EnrollCourse      Action = "course:enroll"
	RateCourse        Action = "course:rate"
	CreateCategory    Action = "category:create"
)

var adminActions = []Action{
	CreateCourse, UpdateAnyCourse, DeleteAnyCourse, PublishAnyCourse,
	ViewMentorCourses, EnrollCourse, RateCourse, CreateCategory,
}

var permissions = map[string][]Action{
	constants.RoleStudent:    {EnrollCourse, RateCourse},
	constants.RoleMentor:     {CreateCourse, ViewMentorCourses, EnrollCourse, RateCourse},
	constants.RoleAdmin:      adminActions,
	constants.RoleSuperAdmin: adminActions,
}

// Can reports whether role may perform action. Role names match exactly.
func Can(role string, action Action) bool {
	for _, a := range permissions[role] {
		if a == action {
			return true
		}
	}
	return false
}

// IsAdminTier reports whether role has blanket authority over all courses.
func IsAdminTier(role string) bool {
	return constants.Contains(constants.AdminRoles, role)
}

// CanManageCourse is the ownership rule shared by update, delete and
// publish: the requester owns the course, or the role may act on any course.
// mentorRef may be a raw id or a populated user.
func CanManageCourse(anyAction Action, role, requesterID string, mentorRef any) bool {
	if Can(role, anyAction) {
		return true
	}
	return utils.SameRef(requesterID, mentorRef)
}
