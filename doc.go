// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package devices is the root package of the rapid-reader module and holds
// no code; the reader's packages live in its subdirectories (app, catalog,
// epub, display/sharplcd, cmd/reader, ...).
package devices
