// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"cogentcore.org/xyzar/base/errors"
	"cogentcore.org/xyzar/gpu"
)

// readShaders reads the configured shader files, using the built-in
// source for any that is not set.
func (v *Viewer) readShaders() (vert, frag string, err error) {
	vert, frag = gpu.DefaultVertexShader, gpu.DefaultFragmentShader
	if p := v.Config.Shaders.Vertex; p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return "", "", fmt.Errorf("viewer: reading vertex shader: %w", err)
		}
		vert = string(b)
	}
	if p := v.Config.Shaders.Fragment; p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return "", "", fmt.Errorf("viewer: reading fragment shader: %w", err)
		}
		frag = string(b)
	}
	return vert, frag, nil
}

// watchShaders reloads the shaders whenever one of their files is
// written. The directories are watched rather than the files, since
// editors often replace a file instead of writing it.
func (v *Viewer) watchShaders(ctx context.Context) error {
	files := map[string]bool{}
	for _, p := range []string{v.Config.Shaders.Vertex, v.Config.Shaders.Fragment} {
		if p != "" {
			files[filepath.Clean(p)] = true
		}
	}
	if len(files) == 0 {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("viewer: watching shaders: %w", err)
	}
	defer watcher.Close()
	dirs := map[string]bool{}
	for p := range files {
		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("viewer: watching shaders: %w", err)
		}
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !files[filepath.Clean(event.Name)] || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			vert, frag, err := v.readShaders()
			if errors.Log(err) != nil {
				continue
			}
			slog.Info("shader changed", "file", event.Name)
			v.Renderer.SetShaderSources(vert, frag)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			errors.Log(err)
		}
	}
}
