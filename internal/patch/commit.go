package patch

// ToCommit materializes a parsed Patch into a Commit against the original
// file snapshot. All chunk application happens here, before anything touches
// a provider, so a fatal error leaves the workspace untouched.
func ToCommit(p *Patch, orig map[string]string) (*Commit, error) {
	commit := &Commit{Changes: map[string]FileChange{}}

	add := func(path string, change FileChange) {
		commit.Changes[path] = change
		commit.Order = append(commit.Order, path)
	}

	for _, path := range p.Order {
		action := p.Actions[path]
		switch action.Type {
		case ActionDelete:
			old, ok := orig[path]
			if !ok {
				return nil, diffErrorf("Delete File Error - Missing File: %s", path)
			}
			add(path, FileChange{Type: ActionDelete, OldContent: &old})

		case ActionAdd:
			if action.NewFile == nil || *action.NewFile == "" {
				return nil, diffErrorf("Add File Error - no content for: %s", path)
			}
			add(path, FileChange{Type: ActionAdd, NewContent: action.NewFile})

		case ActionUpdate:
			old, ok := orig[path]
			if !ok {
				return nil, diffErrorf("Update File Error - Missing File: %s", path)
			}
			content, err := ApplyChunks(old, action, path)
			if err != nil {
				return nil, err
			}
			add(path, FileChange{
				Type:       ActionUpdate,
				OldContent: &old,
				NewContent: &content,
				MovePath:   action.MovePath,
			})
		}
	}
	return commit, nil
}
