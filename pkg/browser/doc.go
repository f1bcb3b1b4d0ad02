// Package browser drives a headless Chrome session over the dictionary
// listing. The Session owns the browser process, the Navigator walks the
// paginated grid, and the extract helpers turn raw card markup into video
// URLs and labels without any further browser round trips.
package browser
