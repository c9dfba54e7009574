// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Synchronisation primitives shared by the schedulers: the ready queue of
// task ids and the one-permit parker an idle scheduler sleeps on.
package concurrency
