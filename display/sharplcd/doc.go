// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sharplcd controls the Sharp Memory LCD family (LS027B7DH01 and
// compatible) over SPI.
//
// The panel is line-addressed: a frame update writes one command byte, one
// address+50-byte-line tuple per line, and a trailer byte, all under a
// single CS hold. The polarity of the VCOM mode bit must alternate on every
// transaction or the panel accumulates DC bias damage.
//
// Datasheet: https://www.sharpsde.com/fileadmin/products/Displays/2016_SDE_App_Note_for_Memory_LCD_programming_V1.3.pdf
package sharplcd
