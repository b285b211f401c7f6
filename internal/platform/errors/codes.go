// Package errors provides structured error handling with machine-readable codes.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Campaign errors
	CodeCampaignNameEmpty Code = "CAMPAIGN_NAME_EMPTY"
	CodeCampaignNotFound  Code = "CAMPAIGN_NOT_FOUND"

	// Content pack errors
	CodePackNotLoaded    Code = "PACK_NOT_LOADED"
	CodePackInvalid      Code = "PACK_INVALID"
	CodeTableNotFound    Code = "TABLE_NOT_FOUND"
	CodeImportUnreadable Code = "IMPORT_UNREADABLE"

	// Interpreter errors
	CodeRecursionLimit Code = "RECURSION_LIMIT"

	// Scene errors
	CodeSceneInvalidState Code = "SCENE_INVALID_STATE"
	CodeSceneFinalized    Code = "SCENE_FINALIZED"

	// Check errors
	CodeCheckUnknownSkill Code = "CHECK_UNKNOWN_SKILL"
	CodeCheckInvalidDraft Code = "CHECK_INVALID_DRAFT"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Dice/mechanics errors
	CodeDiceInvalidSpec Code = "DICE_INVALID_SPEC"

	// Random/seed errors
	CodeSeedOutOfRange Code = "SEED_OUT_OF_RANGE"
)
