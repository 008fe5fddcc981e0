package timetable

// Distinct возвращает имена отслеживаемых групп, расписание которых изменилось.
//
// Пропажа нового снимка не считается изменением: неудачная загрузка
// не должна выглядеть как изменение всех групп. Если список tracked пуст,
// используются группы обоих снимков.
func Distinct(previous, next *Snapshot, tracked []string) []string {
	switch {
	case previous == nil && next == nil:
		return []string{}
	case previous != nil && next == nil:
		return []string{}
	case previous == nil:
		return trackedNames(tracked, next)
	case previous.UID == next.UID:
		return []string{}
	}

	changed := make([]string, 0)
	for _, name := range trackedNames(tracked, next, previous) {
		prev, inPrev := previous.Group(name)
		cur, inNext := next.Group(name)

		switch {
		case inPrev != inNext:
			changed = append(changed, name)
		case inPrev && inNext && prev.UID != cur.UID:
			changed = append(changed, name)
		}
	}

	return changed
}

func trackedNames(tracked []string, snapshots ...*Snapshot) []string {
	if len(tracked) > 0 {
		names := make([]string, len(tracked))
		copy(names, tracked)
		return names
	}

	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, s := range snapshots {
		for _, g := range s.Groups {
			if !seen[g.Name] {
				seen[g.Name] = true
				names = append(names, g.Name)
			}
		}
	}
	return names
}
