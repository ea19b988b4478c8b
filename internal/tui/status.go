package tui

import (
	"fmt"
	"strings"
)

// Canonical short status messages used across the app.
const (
	MsgSigningIn      = "Signing in…"
	MsgRegistering    = "Creating account…"
	MsgLoading        = "Loading…"
	MsgRefreshing     = "Refreshing…"
	MsgSaving         = "Saving…"
	MsgDeleting       = "Deleting…"
	MsgLoadingArticle = "Loading article…"
	MsgSyncing        = "Syncing…"
	MsgNoResults      = "No results"
	MsgLoggedOut      = "Logged out"
	MsgArticleSaved   = "Article saved"
	MsgCategorySaved  = "Category saved"
	MsgNoImage        = "This article has no image"
	MsgOffline        = "Showing cached articles"
)

func MsgWelcome(username string) string {
	return fmt.Sprintf("Welcome, %s", strings.TrimSpace(username))
}

func MsgRegistered(username string) string {
	return fmt.Sprintf("Account '%s' created, please log in", strings.TrimSpace(username))
}

func MsgDeleted(kind, name string) string {
	return fmt.Sprintf("Deleted %s '%s'", kind, strings.TrimSpace(name))
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgSyncSummary(articles, categories, docCount int) string {
	base := fmt.Sprintf("Synced: %d articles • %d categories", articles, categories)
	if docCount >= 0 {
		base += fmt.Sprintf(" • idx: %d docs", docCount)
	}
	return base
}
