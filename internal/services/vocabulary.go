package services

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Canonical résumé section kinds.
const (
	SectionSummary        = "summary"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionSkills         = "skills"
	SectionProjects       = "projects"
	SectionCertifications = "certifications"
	SectionLanguages      = "languages"
	SectionAchievements   = "achievements"
	SectionUnknown        = "unknown"
)

// SectionVocabulary maps canonical section kinds to their closed list of
// heading synonyms. Built once at startup and injected, never mutated.
type SectionVocabulary map[string][]string

// DefaultSectionVocabulary returns the heading synonyms observed across
// common résumé phrasings.
func DefaultSectionVocabulary() SectionVocabulary {
	return SectionVocabulary{
		SectionSummary: {
			"summary", "professional summary", "profile", "about me",
			"personal statement", "objective", "career objective",
			"career summary", "personal profile", "executive summary",
			"introduction", "overview",
		},
		SectionExperience: {
			"experience", "work experience", "employment history",
			"work history", "professional experience", "experiences",
			"work experiences", "experience summary", "career history",
			"professional background", "employment", "relevant experience",
		},
		SectionEducation: {
			"education", "academic background", "academic history",
			"qualifications", "educations", "education summary",
			"education history", "education background", "academic record",
			"education and training", "academic qualifications",
		},
		SectionSkills: {
			"skills", "technical skills", "core competencies", "key skills",
			"expertise", "skills summary", "tech stack", "technical expertise",
			"competencies", "areas of expertise", "technologies",
			"technical proficiencies", "hard skills",
		},
		SectionProjects: {
			"projects", "personal projects", "professional projects",
			"key projects", "projects summary", "project summary",
			"project experience", "highlighted projects", "selected projects",
			"academic projects", "side projects",
		},
		SectionCertifications: {
			"certifications", "certificates", "professional certifications",
			"certification", "licenses and certifications",
			"courses and certifications", "training and certifications",
			"licenses", "professional development", "courses",
		},
		SectionLanguages: {
			"language", "languages", "language proficiency",
			"language skills", "spoken languages", "foreign languages",
			"languages spoken", "language proficiencies",
			"linguistic skills", "languages known",
		},
		SectionAchievements: {
			"achievements", "awards", "honors", "accomplishments", "prizes",
			"prizes and awards", "awards and honors", "honors and awards",
			"key achievements", "notable achievements", "recognition",
		},
	}
}

// Kinds returns the canonical section kinds in a stable order.
func (v SectionVocabulary) Kinds() []string {
	return []string{
		SectionSummary, SectionExperience, SectionEducation, SectionSkills,
		SectionProjects, SectionCertifications, SectionLanguages,
		SectionAchievements,
	}
}

// DefaultITSkills is the curated technology vocabulary used when no
// external skill list is supplied. All entries are lowercase canonical
// names (post abbreviation expansion and variant folding).
func DefaultITSkills() []string {
	return []string{
		"python", "java", "javascript", "typescript", "go", "golang",
		"c", "c++", "c#", "ruby", "php", "swift", "kotlin", "rust",
		"scala", "r", "dart", "elixir", "perl",
		"sql", "postgresql", "mysql", "mssql", "sqlite", "mongodb",
		"redis", "elasticsearch", "cassandra", "dynamodb", "oracle",
		"react", "angular", "vue", "nextjs", "svelte", "jquery",
		"node", "express", "nestjs", "django", "flask", "fastapi",
		"spring", "spring boot", "laravel", "symfony", "ruby on rails",
		".net", "asp.net", "gin", "fiber",
		"html", "css", "sass", "tailwind", "bootstrap",
		"docker", "docker-compose", "kubernetes", "helm", "terraform",
		"ansible", "jenkins", "github actions", "gitlab ci", "circleci",
		"git", "linux", "bash", "nginx",
		"aws", "azure", "google cloud", "heroku", "digitalocean",
		"graphql", "rest api", "grpc", "websocket", "oauth",
		"kafka", "rabbitmq", "celery",
		"machine learning", "deep learning", "artificial intelligence",
		"natural language processing", "computer vision",
		"tensorflow", "pytorch", "scikit-learn", "keras",
		"pandas", "numpy", "matplotlib", "spark", "hadoop",
		"data analysis", "data engineering", "etl",
		"microservices", "distributed systems", "system design",
		"agile", "scrum", "continuous integration", "continuous deployment",
		"unit testing", "integration testing", "selenium", "cypress", "jest",
		"figma", "user interface", "user experience",
		"android", "ios", "flutter", "react native",
	}
}

// LoadSkillVocabulary merges a line-delimited lowercase skill file into the
// curated default list. A missing or empty file is tolerated, not fatal.
func LoadSkillVocabulary(path string) ([]string, error) {
	skills := DefaultITSkills()

	if path == "" {
		return skills, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return skills, nil
		}
		return skills, fmt.Errorf("failed to open skill vocabulary: %w", err)
	}
	defer f.Close()

	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		seen[s] = struct{}{}
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		skills = append(skills, line)
	}

	if err := scanner.Err(); err != nil {
		return skills, fmt.Errorf("failed to read skill vocabulary: %w", err)
	}

	return skills, nil
}
