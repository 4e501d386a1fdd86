// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teereader provides a TeeReader implementation that captures the last line
// of output while preserving all data for complete reading. This is useful for
// displaying progress information from long-running commands while maintaining
// access to the full output.
package teereader
