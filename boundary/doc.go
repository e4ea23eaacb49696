// Package boundary implements the buffer ownership rules for crossing the
// guest boundary.
//
// Every document crosses as a null-terminated UTF-8 string placed in the
// guest's linear memory. Ownership moves with the pointer:
//
//   - host to guest: the host allocates through the guest's alloc export,
//     writes the text and passes the pointer to set_current_config. From
//     that call on the guest owns the memory and frees it after decoding.
//   - guest to host: get_current_config and render return a pointer the
//     host now owns. The host copies the text out and returns the memory
//     through dealloc.
//
// Buffer is the host-side handle that makes those rules hard to break: a
// Buffer can be transferred or released exactly once. Arena is the
// guest-side allocation table that keeps exported memory alive until it is
// taken back.
package boundary
