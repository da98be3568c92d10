// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Code that waits or reads the wall clock takes a [Clock] instead of
// calling the time package. Production wiring passes [Real]; tests pass
// [Fake], whose time moves only on Advance:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	syncer := messaging.NewSyncer(messaging.SyncerConfig{Clock: fake, ...})
//	go syncer.Run(ctx)
//	fake.WaitForTimers(1)      // the syncer is pausing after an error
//	fake.Advance(time.Second)  // release it deterministically
package clock
