package shader

import (
	"maps"
	"slices"
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
)

// MergeBindGroupLayouts combines the bind group layouts parsed from a vertex and a fragment
// shader. Groups present in both stages have their entries merged by binding number, with
// the visibility flags of shared bindings OR-ed together.
//
// Parameters:
//   - vertexLayouts: bind group layout descriptors from the vertex shader
//   - fragmentLayouts: bind group layout descriptors from the fragment shader
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors keyed by group index
func MergeBindGroupLayouts(vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor, max(len(vertexLayouts), len(fragmentLayouts)))
	maps.Copy(merged, vertexLayouts)

	for g, fDesc := range fragmentLayouts {
		vDesc, ok := merged[g]
		if !ok {
			merged[g] = fDesc
			continue
		}

		entries := make(map[uint32]wgpu.BindGroupLayoutEntry, len(vDesc.Entries)+len(fDesc.Entries))
		for _, e := range vDesc.Entries {
			entries[e.Binding] = e
		}
		for _, e := range fDesc.Entries {
			if existing, ok := entries[e.Binding]; ok {
				existing.Visibility |= e.Visibility
				e = existing
			}
			entries[e.Binding] = e
		}

		flat := slices.Collect(maps.Values(entries))
		sort.Slice(flat, func(i, j int) bool { return flat[i].Binding < flat[j].Binding })
		merged[g] = wgpu.BindGroupLayoutDescriptor{Label: vDesc.Label, Entries: flat}
	}
	return merged
}
