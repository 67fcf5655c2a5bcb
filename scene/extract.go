package scene

// GetMeshRenderers collects the renderers of obj's active hierarchy whose
// world bounds reach minSize and which are allowed at the given build level.
func GetMeshRenderers(obj *Object, minSize float32, level int) []*MeshRenderer {
	var results []*MeshRenderer
	obj.Walk(func(o *Object) bool {
		if !o.Active {
			return false
		}
		if o.LODLimit != nil && level > *o.LODLimit {
			return false
		}
		r := o.renderer
		if r == nil || r.Mesh == nil || len(r.Mesh.Indices) == 0 {
			return true
		}
		if r.WorldBounds().MaxDimension() < minSize {
			return true
		}
		results = append(results, r)
		return true
	})
	return results
}

// GetColliders collects every active collider below objs that reaches
// minSize. Build levels do not apply to colliders.
func GetColliders(objs []*Object, minSize float32) []*Collider {
	var results []*Collider
	for _, obj := range objs {
		obj.Walk(func(o *Object) bool {
			if !o.Active {
				return false
			}
			c := o.collider
			if c == nil {
				return true
			}
			if c.WorldBounds().MaxDimension() < minSize {
				return true
			}
			results = append(results, c)
			return true
		})
	}
	return results
}

// HLODTargets lists the active children of root that were not produced by a bake.
func HLODTargets(root *Object) []*Object {
	var targets []*Object
	for _, c := range root.children {
		if !c.Active || c.Generated {
			continue
		}
		targets = append(targets, c)
	}
	return targets
}

// ObjectBounds is the world box of the active renderers below obj, falling
// back to colliders and finally to the object's position.
func ObjectBounds(obj *Object) Bounds {
	b := EmptyBounds()
	obj.Walk(func(o *Object) bool {
		if !o.Active {
			return false
		}
		if o.renderer != nil && o.renderer.Mesh != nil {
			b = b.Encapsulate(o.renderer.WorldBounds())
		}
		return true
	})
	if !b.IsEmpty() {
		return b
	}
	for _, c := range GetColliders([]*Object{obj}, 0) {
		b = b.Encapsulate(c.WorldBounds())
	}
	if !b.IsEmpty() {
		return b
	}
	p := obj.LocalToWorld().Col(3).Vec3()
	return Bounds{Min: p, Max: p}
}
