//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package graph

import (
	"context"
)

// GraphInfo wraps a Graph with the metadata a manifest or designer request
// attaches to it (spec.md §3.7): a display name, whether it auto-starts, and
// either an inline Graph or a reference to load one from.
type GraphInfo struct {
	Name             *string `json:"name,omitempty"`
	AutoStart        *bool   `json:"auto_start,omitempty"`
	Graph            Graph   `json:"graph"`
	ImportURI        *string `json:"import_uri,omitempty"`
	AppBaseDir       *string `json:"-"`
	BelongingPkgType *string `json:"-"`
	BelongingPkgName *string `json:"-"`
}

// GraphInfoLoader resolves an import_uri to the Graph it names, given the
// base directory the importing manifest lives in (spec.md §4.2).
type GraphInfoLoader func(ctx context.Context, importURI string, baseDir *string) (*Graph, error)

// ValidateAndCompleteAndFlatten implements spec.md §4.9 for a GraphInfo: if
// ImportURI is set, the inline Graph must be entirely empty, and the
// referenced graph is loaded and substituted before running the regular
// convert/flatten/validate pipeline.
func (gi *GraphInfo) ValidateAndCompleteAndFlatten(ctx context.Context, infoLoader GraphInfoLoader, subLoader SubgraphLoader) error {
	if gi.ImportURI != nil {
		if !isEmptyGraph(gi.Graph) {
			return newErr(KindSchema, "", "graph_info with import_uri must not also declare nodes/connections/exposed_*")
		}
		if infoLoader == nil {
			return newErr(KindReference, "", "graph_info declares import_uri %q but no loader was supplied", *gi.ImportURI)
		}
		loaded, err := infoLoader(ctx, *gi.ImportURI, gi.AppBaseDir)
		if err != nil {
			return &Error{Kind: KindReference, Err: err}
		}
		gi.Graph = *loaded
	}

	flattened, err := gi.Graph.ValidateAndCompleteAndFlatten(ctx, subLoader)
	if err != nil {
		return err
	}
	gi.Graph = *flattened
	return nil
}

func isEmptyGraph(g Graph) bool {
	return len(g.Nodes) == 0 && len(g.Connections) == 0 &&
		len(g.ExposedMessages) == 0 && len(g.ExposedProperties) == 0
}
