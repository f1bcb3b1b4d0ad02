// Package scraper ties the pieces together: it seeds the ID allocator from
// the label file, walks the listing page by page, records new entries and
// feeds the download queue. Navigation failures abort the run; everything
// else is counted and survived.
package scraper
