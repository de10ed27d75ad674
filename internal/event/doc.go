// Package event provides types and functions for modeling Karol a Kvído performances.
//
// The event package holds the normalized Event record extracted from the duo's
// public concert calendar, the stable iCalendar identifier derived from an
// event's detail URL, and the Czech kraj (region) vocabulary used to filter
// exported feeds. Event start times are absolute instants interpreted in the
// Europe/Prague civil timezone.
package event
