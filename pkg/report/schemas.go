package report

// JSON schemas for the per-phase structured reports. Field names follow the
// wire format of pkg/models.

const PlanSchema = `{
  "type": "object",
  "required": ["intent", "scope", "estimated_complexity"],
  "properties": {
    "intent": {"type": "string", "minLength": 1},
    "scope": {"type": "string", "minLength": 1},
    "discovery_questions": {"type": "array", "items": {"type": "string"}},
    "constraints": {"type": "array", "items": {"type": "string"}},
    "success_criteria": {"type": "array", "items": {"type": "string"}},
    "estimated_complexity": {"type": "string", "enum": ["low", "medium", "high"]}
  }
}`

const ReviewSchema = `{
  "type": "object",
  "required": ["approved", "feedback"],
  "properties": {
    "approved": {"type": "boolean"},
    "feedback": {"type": "string"},
    "suggested_changes": {"type": "array", "items": {"type": "string"}},
    "revised_plan": {"type": "object"}
  }
}`

const DiscoverySchema = `{
  "type": "object",
  "required": ["findings"],
  "properties": {
    "findings": {"type": "string"},
    "key_insights": {"type": "array", "items": {"type": "string"}}
  }
}`

const DecompositionSchema = `{
  "type": "object",
  "required": ["phases"],
  "properties": {
    "phases": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "tasks"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "acceptance_criteria": {"type": "array", "items": {"type": "string"}},
          "tasks": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["name", "subtasks"],
              "properties": {
                "name": {"type": "string", "minLength": 1},
                "acceptance_criteria": {"type": "array", "items": {"type": "string"}},
                "subtasks": {
                  "type": "array",
                  "minItems": 1,
                  "items": {
                    "type": "object",
                    "required": ["name", "objective"],
                    "properties": {
                      "name": {"type": "string", "minLength": 1},
                      "objective": {"type": "string", "minLength": 1},
                      "acceptance_criteria": {"type": "array", "items": {"type": "string"}}
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`
