package game

// Chapters are a non-branching overlay on the scene graph: the current
// chapter advances only via an explicit chapter_progress effect or when the
// last scene of its scene_ids list is exited forward.

// progressChapter handles an explicit chapter_progress directive. It closes
// the current chapter, opens the target, and returns the target's first
// scene id as the new traversal position.
func (e *Engine) progressChapter(id string, events *[]Event) (string, error) {
	target := e.story.ChapterByID(id)
	if target == nil {
		return "", &ContentError{ID: id, Reason: "chapter_progress names an unknown chapter"}
	}
	if len(target.SceneIDs) == 0 {
		return "", &ContentError{ID: id, Reason: "chapter has no scenes to enter"}
	}
	if !e.eval.All(target.UnlockConditions, e.state) {
		e.log.Warnf("chapter_progress(%s): unlock conditions not met, halting traversal", id)
		return "", &ContentError{ID: id, Reason: "chapter unlock conditions not met"}
	}

	e.closeCurrentChapter(events)
	e.openChapter(target, events)
	return target.SceneIDs[0], nil
}

// maybeFinishChapter runs on every forward scene exit. If the exited scene
// is the last of the current chapter, the chapter closes and the next
// declared chapter opens (when its unlock conditions hold).
func (e *Engine) maybeFinishChapter(exitedSceneID string, events *[]Event) {
	ch := e.story.ChapterByID(e.state.CurrentChapterID)
	if ch == nil || len(ch.SceneIDs) == 0 {
		return
	}
	if ch.SceneIDs[len(ch.SceneIDs)-1] != exitedSceneID {
		return
	}

	e.closeCurrentChapter(events)
	next := e.story.NextChapter(ch.ID)
	if next == nil {
		return
	}
	if !e.eval.All(next.UnlockConditions, e.state) {
		e.log.Warnf("chapter %s exhausted but %s is still locked", ch.ID, next.ID)
		return
	}
	e.openChapter(next, events)
}

func (e *Engine) openChapter(ch *Chapter, events *[]Event) {
	e.state.CurrentChapterID = ch.ID
	*events = append(*events, Event{Type: EventChapterOpened, ID: ch.ID})
	if ch.OpeningCutscene != "" {
		*events = append(*events, Event{Type: EventCutscene, ID: ch.OpeningCutscene})
	}
	e.log.Printf("chapter opened: %s", ch.ID)
}

func (e *Engine) closeCurrentChapter(events *[]Event) {
	ch := e.story.ChapterByID(e.state.CurrentChapterID)
	if ch == nil {
		return
	}
	*events = append(*events, Event{Type: EventChapterClosed, ID: ch.ID})
	if ch.ClosingCutscene != "" {
		*events = append(*events, Event{Type: EventCutscene, ID: ch.ClosingCutscene})
	}
}

// questAvailable reports whether a side quest may activate on entry to its
// starting scene: the availability conditions must hold, and a
// non-repeatable quest never re-runs once its completion flag is set.
func (e *Engine) questAvailable(q *SideQuest) bool {
	if !q.Repeatable && e.state.Flag(q.ReturnPoint.CompletionFlag) {
		return false
	}
	return e.eval.All(q.AvailabilityConditions, e.state)
}

// redirectSideQuestReturn intercepts a forward exit from the final scene of
// the active side quest's sequence: it evaluates the completion flag,
// applies rewards on success, clears the active quest, and returns the
// redirected transition target.
func (e *Engine) redirectSideQuestReturn(exitedSceneID, target string, events *[]Event) string {
	if e.state.ActiveSideQuestID == "" {
		return target
	}
	q := e.story.SideQuestByID(e.state.ActiveSideQuestID)
	if q == nil || q.lastSceneID() != exitedSceneID {
		return target
	}

	rp := q.ReturnPoint
	if e.state.Flag(rp.CompletionFlag) {
		e.effects.Apply(q.RewardsOnCompletion, e.state)
		e.unlockAchievements(events)
		target = rp.SceneIDIfCompleted
		*events = append(*events, Event{Type: EventSideQuestCompleted, ID: q.ID})
	} else {
		if rp.SceneIDIfFailed != "" {
			target = rp.SceneIDIfFailed
		} else {
			target = rp.SceneIDDefault
		}
		*events = append(*events, Event{Type: EventSideQuestFailed, ID: q.ID})
	}
	e.state.ActiveSideQuestID = ""
	e.log.Printf("side quest %s returned to %s", q.ID, target)
	return target
}
