package tiletype

// Регистрируем каталог при импорте пакета
func init() {
	// Вода
	Register(&TileType{ID: DeepOceanID, Name: "deep_ocean", Layer: LayerOcean, Ocean: true})
	Register(&TileType{ID: CloseOceanID, Name: "close_ocean", Layer: LayerOcean, Ocean: true})
	Register(&TileType{ID: ShallowWatersID, Name: "shallow_waters", Layer: LayerOcean, Ocean: true})
	Register(&TileType{ID: PitID, Name: "pit", Layer: LayerOcean, CanBeFilledWithOcean: true})

	// Суша
	Register(&TileType{ID: SandID, Name: "sand", Layer: LayerGround, Ground: true, Sand: true})
	Register(&TileType{ID: SoilLowID, Name: "soil_low", Layer: LayerGround, Ground: true, CanBeBiome: true})
	Register(&TileType{ID: SoilHighID, Name: "soil_high", Layer: LayerGround, Ground: true, CanBeBiome: true})
	Register(&TileType{ID: HillsID, Name: "hills", Layer: LayerGround, Ground: true, Rocks: true})
	Register(&TileType{ID: MountainsID, Name: "mountains", Layer: LayerBlock, Ground: true, Rocks: true})
	Register(&TileType{ID: WastelandID, Name: "wasteland", Layer: LayerGround, Ground: true, Wasteland: true})

	// Биомы
	Register(&TileType{ID: GrassID, Name: "grass", Layer: LayerGround, Ground: true, Grass: true, IsBiome: true})
	Register(&TileType{ID: SavannaID, Name: "savanna", Layer: LayerGround, Ground: true, Grass: true, IsBiome: true})
	Register(&TileType{ID: JungleID, Name: "jungle", Layer: LayerGround, Ground: true, Grass: true, IsBiome: true})
	Register(&TileType{ID: SwampID, Name: "swamp", Layer: LayerGround, Ground: true, IsBiome: true})
}
