// Package scraper extracts Karol a Kvído events from the public concert calendar.
//
// The scraper package walks the calendar page on karolakvido.cz, follows every
// event's detail page and turns the Czech prose there into normalized Event
// records: the "Kdy" section becomes an absolute Europe/Prague instant, the
// "Kde" section the venue, and the "Informace" section the free-text
// description. It understands several date spellings, including written-out
// month names with or without a year and plain numeric dates.
package scraper
