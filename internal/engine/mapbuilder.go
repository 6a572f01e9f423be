package engine

import "battlegrid/internal/wire"

// BuildMap returns the wall coordinates and the sorted spawn point list
// for a map type and grid size (spec §4.B). Settings.GridInit entries are
// applied afterward by World.New and may override any cell this produces.
func BuildMap(mapType wire.MapType, size int) (walls []wire.Coord, spawnPoints []wire.Coord) {
	switch mapType {
	case wire.Circle:
		return buildCircle(size)
	default:
		return buildRect(size)
	}
}

// buildRect walls the four outermost rows/columns and places spawn
// points on the next ring inward.
func buildRect(size int) (walls, spawnPoints []wire.Coord) {
	isWall := func(x, y int) bool {
		return x < 2 || y < 2 || x >= size-2 || y >= size-2
	}
	isSpawnRing := func(x, y int) bool {
		return (x == 2 || y == 2 || x == size-3 || y == size-3) && !isWall(x, y)
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			switch {
			case isWall(x, y):
				walls = append(walls, wire.Coord{X: x, Y: y})
			case isSpawnRing(x, y):
				spawnPoints = append(spawnPoints, wire.Coord{X: x, Y: y})
			}
		}
	}
	return walls, spawnPoints
}

// buildCircle walls every cell outside the inscribed circle and treats
// interior cells adjacent to a wall cell as spawn points. Cells are
// visited in row-major order, so spawnPoints is already sorted (spec
// §4.B, invariant S1).
func buildCircle(size int) (walls, spawnPoints []wire.Coord) {
	cx, cy := size/2, size/2
	radius := size / 2

	outside := func(x, y int) bool {
		dx, dy := x-cx, y-cy
		return dx*dx+dy*dy >= radius*radius
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if outside(x, y) {
				walls = append(walls, wire.Coord{X: x, Y: y})
			}
		}
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if outside(x, y) {
				continue
			}
			if adjacentToWall(x, y, size, outside) {
				spawnPoints = append(spawnPoints, wire.Coord{X: x, Y: y})
			}
		}
	}
	return walls, spawnPoints
}

func adjacentToWall(x, y, size int, outside func(int, int) bool) bool {
	neighbors := [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}}
	for _, n := range neighbors {
		nx, ny := n[0], n[1]
		if nx < 0 || ny < 0 || nx >= size || ny >= size {
			continue
		}
		if outside(nx, ny) {
			return true
		}
	}
	return false
}
