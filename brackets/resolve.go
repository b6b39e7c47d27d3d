package brackets

// resolveByes advances construction-time-known winners through a blueprint
// graph. A match left with a single real participant and no pending inbound
// feed is decided immediately: its winner is seated in the downstream slot
// and its loser link delivers nothing. A match that can only ever receive one
// participant keeps a flagged bye slot and auto-advances at propagation time.
// A match that can receive no participant at all is dropped from the graph.
func resolveByes(matches []*BracketMatch) []*BracketMatch {
	type feed struct {
		src   *BracketMatch
		loser bool
	}

	byUID := make(map[string]*BracketMatch, len(matches))
	alive := make(map[string]bool, len(matches))
	feeds := make(map[string][]*feed)
	loserCut := make(map[string]bool)

	for _, m := range matches {
		byUID[m.UID] = m
		alive[m.UID] = true
	}
	for _, m := range matches {
		if m.WinnerToUID != nil {
			feeds[*m.WinnerToUID] = append(feeds[*m.WinnerToUID], &feed{src: m})
		}
		if m.LoserToUID != nil {
			feeds[*m.LoserToUID] = append(feeds[*m.LoserToUID], &feed{src: m, loser: true})
		}
	}

	removeFeed := func(target string, src *BracketMatch, loser bool) {
		list := feeds[target]
		for i, f := range list {
			if f.src == src && f.loser == loser {
				feeds[target] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}

	known := func(m *BracketMatch) int {
		k := 0
		if m.ParticipantA != nil {
			k++
		}
		if m.ParticipantB != nil {
			k++
		}
		return k
	}

	seat := func(target *BracketMatch, teamID string) {
		id := teamID
		if target.ParticipantA == nil {
			target.ParticipantA = &id
			return
		}
		target.ParticipantB = &id
	}

	cutLoserFeed := func(m *BracketMatch) {
		if m.LoserToUID != nil && !loserCut[m.UID] {
			removeFeed(*m.LoserToUID, m, true)
			loserCut[m.UID] = true
		}
	}

	for changed := true; changed; {
		changed = false
		for _, m := range matches {
			if !alive[m.UID] || m.WinnerID != nil {
				continue
			}
			k := known(m)
			f := len(feeds[m.UID])
			switch {
			case k == 1 && f == 0:
				// Single real participant and nothing inbound: decided now.
				winner := m.ParticipantA
				if winner == nil {
					winner = m.ParticipantB
				}
				w := *winner
				m.WinnerID = &w
				if m.WinnerToUID != nil {
					removeFeed(*m.WinnerToUID, m, false)
					if target := byUID[*m.WinnerToUID]; target != nil && alive[target.UID] {
						seat(target, w)
					}
				}
				cutLoserFeed(m)
				changed = true
			case k == 0 && f == 0:
				// No participant can ever reach this match.
				alive[m.UID] = false
				if m.WinnerToUID != nil {
					removeFeed(*m.WinnerToUID, m, false)
				}
				cutLoserFeed(m)
				changed = true
			case k+f == 1 && m.LoserToUID != nil && !loserCut[m.UID]:
				// Short-handed match decides itself on arrival and will never
				// produce a loser.
				cutLoserFeed(m)
				changed = true
			}
		}
	}

	out := make([]*BracketMatch, 0, len(matches))
	for _, m := range matches {
		if !alive[m.UID] {
			continue
		}
		if m.WinnerID != nil {
			if m.ParticipantA == nil {
				m.ByeA = true
			}
			if m.ParticipantB == nil {
				m.ByeB = true
			}
		} else {
			short := 2 - known(m) - len(feeds[m.UID])
			for short > 0 {
				if m.ParticipantB == nil && !m.ByeB {
					m.ByeB = true
				} else if m.ParticipantA == nil && !m.ByeA {
					m.ByeA = true
				}
				short--
			}
		}
		out = append(out, m)
	}
	return out
}
