// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package core

import (
	"os"

	"github.com/karrick/godirwalk"
	"github.com/rs/zerolog/log"
	"github.com/trim21/errgo"

	"slicecrc/internal/pkg/gfs"
)

// Expand resolves command line arguments into targets, in argument order.
// No argument means stdin. Directories are walked in lexical order when
// recursive is enabled, and are an error target otherwise.
// Problems with a single argument become a target with Err set.
func (h *Hasher) Expand(args []string) []Target {
	if len(args) == 0 {
		args = []string{Stdin}
	}

	targets := make([]Target, 0, len(args))
	stdinSeen := false

	for _, arg := range args {
		if arg == Stdin {
			if !stdinSeen {
				targets = append(targets, Target{Path: Stdin, Size: -1})
				stdinSeen = true
			}
			continue
		}

		s, err := os.Stat(arg)
		if err != nil {
			targets = append(targets, Target{Path: arg, Size: -1, Err: errgo.Wrap(err, "failed to stat")})
			continue
		}

		if !s.IsDir() {
			targets = append(targets, Target{Path: arg, Size: s.Size()})
			continue
		}

		if !h.cfg.Recursive {
			targets = append(targets, Target{Path: arg, Size: -1, Err: gfs.ErrIsDir})
			continue
		}

		targets = h.walk(targets, arg)
	}

	return targets
}

func (h *Hasher) walk(targets []Target, root string) []Target {
	err := godirwalk.Walk(root, &godirwalk.Options{
		FollowSymbolicLinks: h.cfg.FollowSymlinks,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}

			if de.IsSymlink() {
				if !h.cfg.FollowSymlinks {
					return nil
				}
			} else if !de.IsRegular() {
				log.Debug().Str("path", path).Msg("skip non-regular file")
				return nil
			}

			s, err := os.Stat(path)
			if err != nil {
				targets = append(targets, Target{Path: path, Size: -1, Err: errgo.Wrap(err, "failed to stat")})
				return nil
			}

			// symlinks to directories are walked by godirwalk itself
			if s.Mode().IsRegular() {
				targets = append(targets, Target{Path: path, Size: s.Size()})
			}

			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			targets = append(targets, Target{Path: path, Size: -1, Err: err})
			return godirwalk.SkipNode
		},
	})

	if err != nil {
		targets = append(targets, Target{Path: root, Size: -1, Err: errgo.Wrap(err, "failed to walk directory")})
	}

	return targets
}
