package seamcarving

import "time"

// ProgressFunc is notified after every removed seam with the number of seams
// removed so far and the total number of seams to remove.
type ProgressFunc func(done, total int)

// Resize shrinks img to at most width x height pixels by removing vertical
// seams first, then horizontal ones. An axis already at or below the requested
// size is left untouched, so the result is never larger than the source.
// The source grid is only read.
func Resize[C Channel](img Grid[C], width, height int) *Buffer[C] {
	return resize(img, width, height, nil)
}

func resize[C Channel](img Grid[C], width, height int, progress ProgressFunc) *Buffer[C] {
	src := gridSize(img)
	target := Point{X: max(width, 0), Y: max(height, 0)}
	if src.X == 0 || src.Y == 0 {
		return NewBuffer[C](min(target.X, src.X), min(target.Y, src.Y), img.Channels())
	}

	start := time.Now()
	toRemove := src.Sub(target)
	total := toRemove.X + toRemove.Y

	var report func(int)
	if progress != nil {
		report = func(done int) { progress(done, total) }
	}

	carvedX := carve(img, toRemove.X, report)
	if report != nil {
		offset := toRemove.X
		report = func(done int) { progress(offset+done, total) }
	}
	carvedY := carve[C](Transpose(carvedX), toRemove.Y, report)
	res := ToBuffer[C](Transpose(carvedY))

	Logger().Debug("seamcarving: resized",
		"from", src,
		"to", Point{X: res.W, Y: res.H},
		"seams", total,
		"elapsed", time.Since(start),
	)
	return res
}

// carve removes count vertical seams from img.
func carve[C Channel](img Grid[C], count int, report func(int)) Grid[C] {
	if count == 0 {
		return img
	}
	c := NewCarvable(img)
	for i := range count {
		c.RemoveSeam()
		if report != nil {
			report(i + 1)
		}
	}
	Logger().Debug("seamcarving: axis pass done",
		"seams", count,
		"width", c.carved.Width(),
		"height", c.carved.Height(),
	)
	return c.Result()
}
