package pyannote

// diarizeScript is the embedded Python script for speaker diarization.
// It prints one JSON document on stdout; all progress and errors go to
// stderr so the Go side can parse stdout unconditionally.
// Audio is pre-loaded via torchaudio to avoid pyannote's torchcodec issues.
const diarizeScript = `#!/usr/bin/env python3
import argparse
import json
import sys
import warnings

warnings.filterwarnings("ignore", message=".*torchcodec.*")

import torch
import torchaudio
from pyannote.audio import Pipeline

PIPELINE_IDS = [
    "pyannote/speaker-diarization-community-1",
    "pyannote/speaker-diarization-3.1",
    "pyannote/speaker-diarization",
]


def log(msg):
    print(msg, file=sys.stderr, flush=True)


def load_audio(audio_path, sample_rate=16000):
    waveform, sr = torchaudio.load(audio_path)
    if sr != sample_rate:
        waveform = torchaudio.transforms.Resample(sr, sample_rate)(waveform)
    if waveform.shape[0] > 1:
        waveform = waveform.mean(dim=0, keepdim=True)
    return {"waveform": waveform, "sample_rate": sample_rate}


def load_pipeline(hf_token):
    last_exc = None
    for pid in PIPELINE_IDS:
        for kw in ("token", "use_auth_token"):
            try:
                log(f"pyannote: trying pipeline {pid} ({kw})")
                return Pipeline.from_pretrained(pid, **{kw: hf_token})
            except TypeError as e:
                last_exc = e
                continue
            except Exception as e:
                last_exc = e
                break
    raise RuntimeError(f"pyannote pipeline load failed: {last_exc}")


def annotation_of(result):
    if hasattr(result, "exclusive_speaker_diarization"):
        return result.exclusive_speaker_diarization
    if hasattr(result, "speaker_diarization"):
        return result.speaker_diarization
    if hasattr(result, "itertracks"):
        return result
    raise RuntimeError(f"unknown pyannote output type: {type(result)}")


def main():
    parser = argparse.ArgumentParser()
    parser.add_argument("--audio", required=True)
    parser.add_argument("--hf-token", required=True)
    args = parser.parse_args()
    try:
        audio = load_audio(args.audio)
        device = torch.device("cuda" if torch.cuda.is_available() else "cpu")
        pipeline = load_pipeline(args.hf_token).to(device)
        log("pyannote: diarizing")
        annotation = annotation_of(pipeline(audio))
        turns = []
        for turn, _, speaker in annotation.itertracks(yield_label=True):
            turns.append({
                "start": float(turn.start),
                "end": float(turn.end),
                "speaker": str(speaker),
            })
        log(f"pyannote: found {len(turns)} speaker turns")
        print(json.dumps({"turns": turns}))
    except Exception as e:
        print(json.dumps({"error": str(e)}), file=sys.stderr)
        sys.exit(1)


if __name__ == "__main__":
    main()
`
