package config

// SetSearchPaths replaces the directories searched for xtc.yaml.
func SetSearchPaths(s *Settings, paths ...string) {
	s.searchPaths = paths
}
