package tile

// CollectIDs visits the whole tileset and returns its tile IDs.
func CollectIDs(v IDVisitor) ([]ID, error) {
	ids := make([]ID, 0)
	err := v.VisitTileIDs(func(tileID ID) error {
		ids = append(ids, tileID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
