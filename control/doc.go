// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

// Package control binds interactive controls to renderer channels.
//
// A [Control] holds the value a widget displays, in the widget's own
// domain (a slider position in [0,1], a chooser index). A [Binding]
// pairs one Control with one channel name and owns two separate paths:
//
//   - Set is the local edit path: store the value, convert it to the
//     renderer's domain (degrees, pixels, sample counts), publish.
//   - ApplyRemote is the dispatch path: convert a decoded renderer value
//     back to the widget domain and store it. It never calls the
//     publisher, so a remote update cannot echo back out.
//
// On construction a binding stores its default and publishes it as the
// console's opening proposal; a later remote update simply overwrites
// it. Storing a value equal to the current one changes nothing and
// signals nobody, which makes repeated remote updates idempotent.
//
// [Panel] assembles the console's full set of bindings.
package control
