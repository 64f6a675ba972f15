// Package core provides the comparison service behind both the web server
// and the tests.
//
// A [Service] holds comparison sessions in memory. Each session owns the
// uploaded key set, the uploaded translation table and the last report. The
// ignore set and the acknowledgement sets are preferences: they are stored
// through a [prefs.Repository] under a profile namespace, so they survive
// session expiry and server restarts.
//
// # Operations
//
// Every exported Service method is one discrete user action:
//
//  1. [Service.LoadKeys] and [Service.LoadTable] parse an upload and replace
//     the session's input atomically. A failed parse leaves the previous
//     input in place.
//  2. [Service.Languages] classifies the table columns and flags the ignored
//     ones; [Service.ToggleIgnore] and [Service.ClearIgnore] edit that set.
//  3. [Service.Compare] runs classify, filter and compare, stores the report
//     and returns it annotated with the current acknowledgements.
//  4. [Service.ToggleAck] and [Service.ClearAcks] edit the acknowledgements;
//     [Service.Report] re-annotates the stored report without recomputing it.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages using [MapError].
// Each category has a code for support reference:
//
//   - CMP001-CMP002: comparison preconditions
//   - SRC001-SRC002: malformed key file or table
//   - FILE001-FILE005: upload size and presence
//   - UPL002-UPL005: upload slot and request lifetime
//   - SES001, ACK001, RATE001: sessions, acknowledgement tracks, throttling
//
// [prefs.Repository]: github.com/JonMunkholm/keydrift/internal/prefs.Repository
package core
