// Package siteport migrates a website's published content into a static,
// file-based content store. It discovers URLs from a sitemap, renders each
// page in a browser, extracts the main content, converts it to markdown and
// records per-URL outcomes in a ledger so repeated runs are incremental.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, sqlite/, htmltomarkdown/).
package siteport
