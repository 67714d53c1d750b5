package util

import "errors"

var (
	ErrEmailRegistered         = errors.New("该邮箱已被注册")
	ErrPermissionDenied        = errors.New("permission denied")
	ErrProfileNotFound         = errors.New("profile not found")
	ErrPathNotFound            = errors.New("path not found")
	ErrReportNotFound          = errors.New("report not found")
	ErrNoPaths                 = errors.New("profile has no candidate paths")
	ErrPresetNotFound          = errors.New("weight preset not found")
	ErrCollaboratorTimeout     = errors.New("collaborator call timed out")
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
)
