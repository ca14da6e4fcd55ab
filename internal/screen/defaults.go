// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"fmt"
	"sort"

	"github.com/data-community-of-practice/litscreen/pkg/types"
)

// Built-in criteria presets for the ICD coding-automation review. The
// staged preset and the scored presets encode different policies for
// what counts as relevant on the same data; a run picks one by name
// rather than the tool guessing.

// presets maps preset name to a constructor so each call returns a
// fresh config the caller may mutate.
var presets = map[string]func() types.ScreenConfig{
	"staged":      stagedPreset,
	"content":     contentPreset,
	"methodology": methodologyPreset,
}

// Presets lists the built-in preset names, sorted.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns a fresh copy of the named built-in configuration.
func Preset(name string) (types.ScreenConfig, error) {
	ctor, ok := presets[name]
	if !ok {
		return types.ScreenConfig{}, fmt.Errorf("unknown preset %q: available presets are %v", name, Presets())
	}
	return ctor(), nil
}

// stagedPreset is the four-stage presence pipeline: year/type
// pre-filter, exclusion of non-medical ICD senses, mandatory ICD
// relevance, mandatory automation/AI relevance.
func stagedPreset() types.ScreenConfig {
	return types.ScreenConfig{
		YearMin: 2005,
		YearMax: 2026,
		Stages: []types.StageConfig{
			{Name: "year-type", Kind: types.StageYearType},
			{
				Name: "non-medical-icd",
				Kind: types.StageExclude,
				// The acronym ICD collides with cardiac devices,
				// interface control documents, and more; these senses
				// disqualify a work outright.
				ExcludedTerms: types.TermSet{
					"Cardiac Device":        {`implantable cardioverter`, `defibrillator device`, `cardiac device`, `ventricular arrhythmia`},
					"Quantum Computing":     {`quantum computing`},
					"Satellite":             {`satellite.{0,40}interface control`, `interface control document`},
					"Gaming":                {`game.{0,30}internal cooldown`, `internal cooldown`},
					"Security/Intelligence": {`intelligence community directive`, `insecure code detector`},
				},
			},
			{
				Name: "icd-relevance",
				Kind: types.StageRequire,
				Required: types.TermSet{
					"ICD":                     {`\bicd[-\s]?\d*\b`},
					"ICD Code":                {`icd\s+cod(e|ing|es)`},
					"Intl Classification":     {`international classification of diseases`},
					"Medical Coding":          {`medical cod(ing|e|es)`},
					"Clinical Coding":         {`clinical cod(ing|e|es)`},
					"Diagnosis Coding":        {`diagnos(is|tic) cod(ing|e|es)`},
					"Code Assignment":         {`code assignment`},
					"Disease Classification":  {`disease classification`},
					"Health Record Coding":    {`health record cod(ing|e)`},
					"Clinical Classification": {`clinical classification`},
				},
			},
			{
				Name: "automation-relevance",
				Kind: types.StageRequire,
				Required: types.TermSet{
					"Automation":        {`automated`, `automatic`, `computer[-\s]assisted`, `algorithm`, `computational`},
					"AI/ML":             {`AI`, `artificial intelligence`, `ML`, `machine learning`, `deep learning`},
					"NLP":               {`NLP`, `natural language processing`, `text classification`, `text mining`},
					"Neural Networks":   {`neural network`, `CNN`, `RNN`, `LSTM`, `GRU`, `convolutional neural`, `recurrent neural`},
					"Transformers/LLMs": {`transformer`, `BERT`, `GPT`, `LLM`, `large language model`, `attention mechanism`, `seq2seq`, `sequence[-\s]to[-\s]sequence`},
					"Learning Paradigm": {`supervised learning`, `unsupervised learning`, `transfer learning`, `multi[-\s]task learning`, `few[-\s]shot`, `zero[-\s]shot`},
					"Classical ML":      {`support vector`, `SVM`, `random forest`, `decision tree`, `gradient boosting`, `logistic regression`, `naive bayes`},
					"Representations":   {`embedding`, `word2vec`, `representation learning`, `feature extraction`},
				},
			},
		},
	}
}

// contentPreset keeps works where code assignment is the task itself
// rather than cohort metadata, via the scored-signal rule table.
func contentPreset() types.ScreenConfig {
	return types.ScreenConfig{
		YearMin: 2005,
		YearMax: 2026,
		Stages: []types.StageConfig{
			{Name: "year-type", Kind: types.StageYearType},
			{
				Name: "coding-task",
				Kind: types.StageScored,
				StrongPositive: types.TermSet{
					"ICD Coding Task":   {`icd coding`, `clinical coding`, `medical coding`, `code assignment`, `icd code assignment`},
					"Automated Coding":  {`automatic icd`, `automated icd`, `auto[-\s]coding`, `automatic coding`, `automated coding`, `computer[-\s](assisted|aided).{0,30}coding`},
					"Coding Prediction": {`icd[-\s]?1[01]\s+(classification|coding|assignment|prediction)`},
				},
				WeakPositive: types.TermSet{
					"ML/DL":        {`machine learning`, `deep learning`, `neural`, `transformer`, `bert`, `llm`, `large language model`},
					"NLP":          {`nlp`, `natural language processing`},
					"Multi-label":  {`multi[-\s]label`, `hierarch(y|ical)`, `sequence[-\s]to[-\s]sequence`},
					"Architecture": {`encoder`, `decoder`, `attention`, `retrieval[-\s]augmented`},
				},
				Negative: types.TermSet{
					"Cohort Identification": {`used icd (codes? )?to identify`, `patients? (were )?identified using icd`, `based on icd codes`},
					"Phenotyping":           {`\bicd(-?1[01])?\b.{0,30}\b(cohort|case definition|phenotyp(e|ing))\b`},
					"Claims Data":           {`\bicd(-?1[01])?\b.{0,30}\b(administrative data|claims data|billing)\b`},
					"Epidemiology":          {`retrospective cohort`, `population[-\s]based`, `incidence`, `prevalence`, `mortality`, `risk factors?`, `health services`, `costs?`},
				},
			},
		},
	}
}

// methodologyPreset keeps technical papers: method or evaluation
// signals pass, audit/billing/qualitative focus counts against.
func methodologyPreset() types.ScreenConfig {
	return types.ScreenConfig{
		YearMin: 2005,
		YearMax: 2026,
		Stages: []types.StageConfig{
			{Name: "year-type", Kind: types.StageYearType},
			{
				Name: "methodology",
				Kind: types.StageScored,
				StrongPositive: types.TermSet{
					"ML Methods":      {`machine learning`, `deep learning`, `neural network`, `transformer`, `bert`, `lstm`, `cnn`, `rnn`},
					"NLP Methods":     {`nlp`, `natural language processing`, `language model`, `large language model`, `llm`, `gpt`},
					"Modeling":        {`classifier`, `classification`, `predictor`, `prediction`, `algorithm`, `pipeline`, `framework`, `architecture`},
					"Supervision":     {`weak supervision`, `distant supervision`, `self[-\s]supervised`, `semi[-\s]supervised`},
					"Retrieval":       {`retrieval[-\s]augmented`, `rerank`, `prompt(ing)?`, `in[-\s]context`},
					"Representations": {`embedding`, `representation learning`, `fine[-\s]tun(e|ing)`, `pre[-\s]?train(ed|ing)?`},
					"Knowledge":       {`ontology`, `knowledge graph`, `snomed`, `umls`},
					"Rule Systems":    {`rule[-\s]based`, `dictionary[-\s]based`, `pattern matching`, `regular expression`},
				},
				WeakPositive: types.TermSet{
					"Metrics":    {`f1`, `micro[-\s]f1`, `macro[-\s]f1`, `precision`, `recall`, `accuracy`, `auc`, `auroc`, `auprc`},
					"Ranking":    {`top[-\s]k`, `precision@k`, `recall@k`, `exact match`, `hamming loss`},
					"Clinical":   {`sensitivity`, `specificity`, `ppv`, `npv`},
					"Evaluation": {`evaluat(e|ed|ion)`, `benchmark`, `baseline`, `comparison`},
					"Validation": {`cross[-\s]validation`, `test set`, `validation set`, `held[-\s]out`, `external validation`, `ablation`, `error analysis`},
				},
				Negative: types.TermSet{
					"Audit/Quality":  {`audit`, `chart review`, `manual review`, `coding quality`, `coding accuracy`},
					"Agreement":      {`inter[-\s]?rater`, `kappa`, `agreement`},
					"Training":       {`coder training`, `coding training`, `education program`, `workforce`},
					"Billing":        {`billing`, `reimbursement`, `drg`, `claims processing`, `administrative claims`},
					"Qualitative":    {`qualitative`, `interview`, `focus group`, `survey`, `implementation study`, `workflow`},
					"Non-research":   {`guideline`, `policy`, `position paper`, `editorial`, `commentary`},
				},
			},
		},
	}
}
